// Package document manages the identity-document image attached to a
// sign-up form.
package document

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"onboard/internal/signup/metrics"
	"onboard/internal/signup/models"
	"onboard/internal/signup/ports"
	dErrors "onboard/pkg/domain-errors"
)

// Status classifies a finished selection.
type Status string

const (
	StatusSelected  Status = "selected"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

const (
	msgFallback = "Could not select image."
	msgNoURI    = "Selected image does not have a valid URI."
	msgNoAssets = "No image was selected or an unexpected error occurred."
)

// DefaultPickerOptions matches the mobile client's image library request.
var DefaultPickerOptions = ports.PickerOptions{
	MediaType:      "photo",
	Quality:        0.7,
	SelectionLimit: 1,
	IncludeBase64:  false,
}

// ErrBusy is returned when a selection is already in flight.
var ErrBusy = dErrors.New(dErrors.CodeBusy, "document selection already in progress")

// Outcome is the result of one selection. Message is empty for cancellations.
type Outcome struct {
	Status   Status
	Message  string
	Document models.DocumentAsset
}

// Picker holds the selected document. The asset is replaced wholesale on a
// successful selection and left untouched otherwise.
type Picker struct {
	opts    ports.PickerOptions
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	busy     bool
	selected models.DocumentAsset
}

// Option configures a Picker.
type Option func(*Picker)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Picker) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Picker) {
		p.metrics = m
	}
}

// WithQuality overrides the compression quality requested from the picker.
func WithQuality(q float64) Option {
	return func(p *Picker) {
		if q > 0 && q <= 1 {
			p.opts.Quality = q
		}
	}
}

func New(opts ...Option) *Picker {
	p := &Picker{
		opts:   DefaultPickerOptions,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pick asks picker for one image. It returns ErrBusy without side effects
// while another selection is in flight.
func (p *Picker) Pick(ctx context.Context, picker ports.MediaPicker) (Outcome, error) {
	if !p.begin() {
		return Outcome{}, ErrBusy
	}

	res, err := picker.Pick(ctx, p.opts)
	out := p.interpret(ctx, res, err)

	p.mu.Lock()
	if out.Status == StatusSelected {
		p.selected = out.Document
	} else {
		out.Document = p.selected
	}
	p.busy = false
	p.mu.Unlock()

	p.metrics.IncDocumentPick(string(out.Status))
	return out, nil
}

func (p *Picker) interpret(ctx context.Context, res ports.PickResult, err error) Outcome {
	if err != nil {
		p.logger.WarnContext(ctx, "media picker failed", "error", err)
		return Outcome{Status: StatusFailed, Message: msgFallback}
	}
	if res.Cancelled {
		p.logger.DebugContext(ctx, "document selection cancelled")
		return Outcome{Status: StatusCancelled}
	}
	if msg := strings.TrimSpace(res.ErrorMessage); msg != "" {
		p.logger.InfoContext(ctx, "media picker reported error", "error", msg)
		return Outcome{Status: StatusFailed, Message: msg}
	}
	if len(res.Assets) == 0 {
		return Outcome{Status: StatusFailed, Message: msgNoAssets}
	}
	asset := res.Assets[0]
	if !asset.HasURI() {
		return Outcome{Status: StatusFailed, Message: msgNoURI}
	}
	p.logger.InfoContext(ctx, "document selected", "mime_type", asset.TypeOrDefault())
	return Outcome{Status: StatusSelected, Document: asset}
}

func (p *Picker) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return false
	}
	p.busy = true
	return true
}

// Selected returns the current document, zero if none has been chosen.
func (p *Picker) Selected() models.DocumentAsset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

func (p *Picker) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}
