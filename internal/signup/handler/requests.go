package handler

import (
	"strings"
	"time"

	"onboard/internal/signup/adapters/device"
	"onboard/internal/signup/location"
	"onboard/internal/signup/models"
	"onboard/internal/signup/ports"
	dErrors "onboard/pkg/domain-errors"
)

// StartRequest opens a workflow.
type StartRequest struct {
	Role string `json:"role"`
}

// FieldRequest writes one form field. Value is required; an empty string is
// a valid value.
type FieldRequest struct {
	Value *string `json:"value"`
}

func (r *FieldRequest) Validate() error {
	if r.Value == nil {
		return dErrors.New(dErrors.CodeBadRequest, "value is required")
	}
	return nil
}

// LocationRequest carries what the device reported for one acquisition: the
// permission answer plus either a fix or a positioning error.
type LocationRequest struct {
	Permission    string               `json:"permission"`
	Position      *PositionReport      `json:"position,omitempty"`
	PositionError *PositionErrorReport `json:"position_error,omitempty"`
}

type PositionReport struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	AgeMillis int64    `json:"age_ms,omitempty"`
}

type PositionErrorReport struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (r *LocationRequest) Validate() error {
	switch strings.ToLower(strings.TrimSpace(r.Permission)) {
	case "granted", "denied":
	default:
		return dErrors.New(dErrors.CodeBadRequest, "permission must be granted or denied")
	}
	if r.Position != nil && r.PositionError != nil {
		return dErrors.New(dErrors.CodeBadRequest, "position and position_error are mutually exclusive")
	}
	if p := r.Position; p != nil {
		if p.Latitude == nil || p.Longitude == nil {
			return dErrors.New(dErrors.CodeBadRequest, "position requires latitude and longitude")
		}
		if p.AgeMillis < 0 {
			return dErrors.New(dErrors.CodeBadRequest, "age_ms cannot be negative")
		}
	}
	return nil
}

// Device turns the report into the capabilities the acquirer calls.
func (r *LocationRequest) Device() location.Device {
	granted := strings.EqualFold(strings.TrimSpace(r.Permission), "granted")
	pos := device.ReportedPosition{}
	if p := r.Position; p != nil {
		pos.Coords = &models.Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}
		pos.Age = time.Duration(p.AgeMillis) * time.Millisecond
	}
	if e := r.PositionError; e != nil {
		pos.Err = &ports.PositionError{Code: ports.PositionErrorCode(e.Code), Message: e.Message}
	}
	return location.Device{
		Permissions: device.ReportedPermission{Granted: granted},
		Positioner:  pos,
	}
}

// DocumentRequest carries the media picker response.
type DocumentRequest struct {
	Cancelled    bool          `json:"cancelled"`
	ErrorCode    string        `json:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Assets       []AssetReport `json:"assets,omitempty"`
}

type AssetReport struct {
	URI      string `json:"uri"`
	Type     string `json:"type,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

func (r *DocumentRequest) Validate() error {
	if len(r.Assets) > 10 {
		return dErrors.New(dErrors.CodeBadRequest, "too many assets")
	}
	return nil
}

func (r *DocumentRequest) Picker() device.ReportedPick {
	assets := make([]models.DocumentAsset, 0, len(r.Assets))
	for _, a := range r.Assets {
		assets = append(assets, models.DocumentAsset{URI: a.URI, MIMEType: a.Type, FileName: a.FileName})
	}
	return device.ReportedPick{
		Cancelled:    r.Cancelled,
		ErrorCode:    r.ErrorCode,
		ErrorMessage: r.ErrorMessage,
		Assets:       assets,
	}
}

type StartResponse struct {
	WorkflowID string `json:"workflow_id"`
}

type ToggleResponse struct {
	Visible bool `json:"visible"`
}

type ValidateResponse struct {
	Valid  bool                     `json:"valid"`
	Errors []models.ValidationError `json:"errors"`
}

type SubmitResponse struct {
	Status string `json:"status"`
}

// ValidationFailedResponse is the 422 body of a rejected submission.
type ValidationFailedResponse struct {
	Error            string                   `json:"error"`
	ErrorDescription string                   `json:"error_description"`
	Errors           []models.ValidationError `json:"errors"`
}
