// Package device adapts capability outcomes reported by a mobile client into
// the ports the workflow calls. The client runs the permission prompt,
// geolocation and media picker itself and posts what happened; these types
// replay that answer when the workflow asks.
package device

import (
	"context"
	"strings"
	"time"

	"onboard/internal/signup/models"
	"onboard/internal/signup/ports"
)

const msgPickerFallback = "Could not select image."

// ReportedPermission answers a permission request with the client's result.
type ReportedPermission struct {
	Granted bool
}

func (p ReportedPermission) Request(ctx context.Context, _ ports.Permission) (ports.PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Granted {
		return ports.PermissionGranted, nil
	}
	return ports.PermissionDenied, nil
}

// ReportedPosition replays a fix or a positioning error. Age is how old the
// fix was when the client read it.
type ReportedPosition struct {
	Coords *models.Coordinates
	Age    time.Duration
	Err    *ports.PositionError
}

func (p ReportedPosition) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	if p.Err != nil {
		return models.Coordinates{}, p.Err
	}
	if p.Coords == nil {
		return models.Coordinates{}, &ports.PositionError{
			Code:    ports.PositionUnavailable,
			Message: "no position reported",
		}
	}
	if opts.MaximumAge > 0 && p.Age > opts.MaximumAge {
		return models.Coordinates{}, &ports.PositionError{
			Code:    ports.PositionUnavailable,
			Message: "cached position is older than the maximum age",
		}
	}
	return *p.Coords, nil
}

// ReportedPick replays a media picker response.
type ReportedPick struct {
	Cancelled    bool
	ErrorCode    string
	ErrorMessage string
	Assets       []models.DocumentAsset
}

func (p ReportedPick) Pick(ctx context.Context, opts ports.PickerOptions) (ports.PickResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.PickResult{}, err
	}
	if p.Cancelled {
		return ports.PickResult{Cancelled: true}, nil
	}
	if p.ErrorCode != "" || strings.TrimSpace(p.ErrorMessage) != "" {
		msg := strings.TrimSpace(p.ErrorMessage)
		if msg == "" {
			msg = msgPickerFallback
		}
		return ports.PickResult{ErrorMessage: msg}, nil
	}
	assets := p.Assets
	if opts.SelectionLimit > 0 && len(assets) > opts.SelectionLimit {
		assets = assets[:opts.SelectionLimit]
	}
	out := make([]models.DocumentAsset, len(assets))
	copy(out, assets)
	return ports.PickResult{Assets: out}, nil
}
