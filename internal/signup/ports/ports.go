// Package ports declares the device and network capabilities the sign-up
// workflow consumes. Implementations live under internal/signup/adapters.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"onboard/internal/signup/models"
)

// Permission names a runtime permission.
type Permission string

const PermissionFineLocation Permission = "fine_location"

// PermissionStatus is the user's answer to a permission prompt.
type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)

// PermissionRequester prompts for a runtime permission.
type PermissionRequester interface {
	Request(ctx context.Context, permission Permission) (PermissionStatus, error)
}

// PositionOptions bounds a single position fix.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// PositionErrorCode follows the platform geolocation codes.
type PositionErrorCode int

const (
	PositionPermissionDenied PositionErrorCode = 1
	PositionUnavailable      PositionErrorCode = 2
	PositionTimeout          PositionErrorCode = 3
)

// PositionError is returned by a Positioner when no fix could be obtained.
type PositionError struct {
	Code    PositionErrorCode
	Message string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position error %d: %s", e.Code, e.Message)
}

// Positioner returns the device's current position. Failures to obtain a fix
// are reported as *PositionError.
type Positioner interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (models.Coordinates, error)
}

// Geocoder resolves coordinates to a human-readable address.
type Geocoder interface {
	Reverse(ctx context.Context, coords models.Coordinates) (string, error)
}

// PickerOptions configures a media selection.
type PickerOptions struct {
	MediaType      string
	Quality        float64
	SelectionLimit int
	IncludeBase64  bool
}

// PickResult is what the media picker reports back. Exactly one of
// Cancelled, ErrorMessage or Assets is meaningful.
type PickResult struct {
	Cancelled    bool
	ErrorMessage string
	Assets       []models.DocumentAsset
}

// MediaPicker presents the system media selector.
type MediaPicker interface {
	Pick(ctx context.Context, opts PickerOptions) (PickResult, error)
}

// Transport delivers an assembled payload to the sign-up endpoint.
type Transport interface {
	Send(ctx context.Context, payload models.SubmissionPayload) error
}
