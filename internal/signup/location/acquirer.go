// Package location runs the permission → position → reverse-geocode cycle
// that fills the address field of a sign-up form.
package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboard/internal/signup/metrics"
	"onboard/internal/signup/models"
	"onboard/internal/signup/ports"
	"onboard/internal/signup/upstream"
	dErrors "onboard/pkg/domain-errors"
)

// State is a step of the acquisition cycle.
type State string

const (
	StateIdle                 State = "idle"
	StateRequestingPermission State = "requesting_permission"
	StateAcquiringPosition    State = "acquiring_position"
	StateReverseGeocoding     State = "reverse_geocoding"
	StateResolved             State = "resolved"
	StateFailed               State = "failed"
)

// Terminal reports whether s ends a cycle.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateFailed
}

// Reason explains a StateFailed outcome.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonTimeout          Reason = "timeout"
	ReasonUnavailable      Reason = "unavailable"
	ReasonGeocodeError     Reason = "geocode_error"
)

const (
	msgPermissionRequired = "Location permission is required."
	msgPermissionError    = "Error requesting location permission."
	msgTimeout            = "Getting location timed out."
	msgUnavailable        = "Unable to determine location."
)

// DefaultPositionOptions matches the mobile client's geolocation request.
var DefaultPositionOptions = ports.PositionOptions{
	HighAccuracy: true,
	Timeout:      20 * time.Second,
	MaximumAge:   10 * time.Second,
}

// ErrBusy is returned when a cycle is already in flight.
var ErrBusy = dErrors.New(dErrors.CodeBusy, "location acquisition already in progress")

// Outcome is the result of one finished cycle.
type Outcome struct {
	State    State
	Reason   Reason
	Message  string
	Address  string
	Location models.LocationResult
}

// AddressWriter receives the resolved address.
type AddressWriter interface {
	SetField(field models.Field, value string)
}

// Device bundles the capabilities that live on the user's device.
type Device struct {
	Permissions ports.PermissionRequester
	Positioner  ports.Positioner
}

// Acquirer owns the location state of one workflow. At most one cycle runs
// at a time; state is guarded by mu and capabilities are called without it.
type Acquirer struct {
	geocoder ports.Geocoder
	form     AddressWriter
	opts     ports.PositionOptions
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *metrics.Metrics

	mu     sync.Mutex
	state  State
	busy   bool
	result models.LocationResult
	last   *Outcome
}

// Option configures an Acquirer.
type Option func(*Acquirer)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Acquirer) {
		a.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(a *Acquirer) {
		a.tracer = tracer
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Acquirer) {
		a.metrics = m
	}
}

// WithPositionOptions overrides DefaultPositionOptions.
func WithPositionOptions(opts ports.PositionOptions) Option {
	return func(a *Acquirer) {
		a.opts = opts
	}
}

// New creates an Acquirer writing resolved addresses into form.
func New(geocoder ports.Geocoder, form AddressWriter, opts ...Option) *Acquirer {
	a := &Acquirer{
		geocoder: geocoder,
		form:     form,
		opts:     DefaultPositionOptions,
		logger:   slog.Default(),
		tracer:   otel.Tracer("onboard/signup/location"),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire runs one full cycle. It returns ErrBusy without side effects when
// another cycle is in flight. Every other failure is reported in the Outcome.
func (a *Acquirer) Acquire(ctx context.Context, device Device) (Outcome, error) {
	if !a.begin() {
		return Outcome{}, ErrBusy
	}

	ctx, span := a.tracer.Start(ctx, "location.Acquire")
	defer span.End()

	out := a.run(ctx, device)

	span.SetAttributes(
		attribute.String("location.state", string(out.State)),
		attribute.String("location.reason", string(out.Reason)),
	)
	if out.State == StateFailed {
		span.SetStatus(codes.Error, string(out.Reason))
	}
	a.metrics.IncLocationAttempt(string(out.State), string(out.Reason))
	a.finish(out)
	return out, nil
}

func (a *Acquirer) run(ctx context.Context, device Device) Outcome {
	status, err := device.Permissions.Request(ctx, ports.PermissionFineLocation)
	if err != nil {
		a.logger.WarnContext(ctx, "location permission request failed", "error", err)
		return a.fail(ReasonPermissionDenied, msgPermissionError)
	}
	if status != ports.PermissionGranted {
		a.logger.InfoContext(ctx, "location permission denied")
		return a.fail(ReasonPermissionDenied, msgPermissionRequired)
	}

	a.transition(StateAcquiringPosition)
	coords, err := a.position(ctx, device.Positioner)
	if err != nil {
		reason, msg := classifyPositionError(err)
		a.logger.InfoContext(ctx, "position fix failed", "reason", reason, "error", err)
		return a.fail(reason, msg)
	}

	result := models.NewLocationResult(coords)
	a.mu.Lock()
	a.result = result
	a.state = StateReverseGeocoding
	a.mu.Unlock()

	start := time.Now()
	address, err := a.geocoder.Reverse(ctx, coords)
	a.metrics.ObserveGeocode(start)
	if err != nil {
		a.logger.WarnContext(ctx, "reverse geocoding failed",
			"category", upstream.GetCategory(err),
			"error", err,
		)
		out := a.fail(ReasonGeocodeError, "Failed to fetch address: "+upstream.UserMessage(err))
		out.Location = result
		return out
	}

	a.form.SetField(models.FieldAddress, address)
	a.logger.InfoContext(ctx, "location resolved", "duration_ms", time.Since(start).Milliseconds())
	return Outcome{
		State:    StateResolved,
		Message:  "Address updated:\n" + address,
		Address:  address,
		Location: result,
	}
}

func (a *Acquirer) position(ctx context.Context, positioner ports.Positioner) (models.Coordinates, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}
	coords, err := positioner.CurrentPosition(ctx, a.opts)
	if err != nil {
		return models.Coordinates{}, err
	}
	if !coords.Valid() {
		return models.Coordinates{}, &ports.PositionError{
			Code:    ports.PositionUnavailable,
			Message: "coordinates out of range",
		}
	}
	return coords, nil
}

func classifyPositionError(err error) (Reason, string) {
	var pe *ports.PositionError
	if errors.As(err, &pe) {
		switch pe.Code {
		case ports.PositionTimeout:
			return ReasonTimeout, msgTimeout
		case ports.PositionUnavailable:
			return ReasonUnavailable, msgUnavailable
		}
		return ReasonUnavailable, fmt.Sprintf("Location Error: %s (Code: %d)", pe.Message, pe.Code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout, msgTimeout
	}
	return ReasonUnavailable, msgUnavailable
}

// begin checks and sets the busy flag and starts a new cycle. Any previous
// location result is discarded.
func (a *Acquirer) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return false
	}
	a.busy = true
	a.state = StateRequestingPermission
	a.result = models.LocationResult{}
	a.last = nil
	return true
}

func (a *Acquirer) transition(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

func (a *Acquirer) fail(reason Reason, msg string) Outcome {
	return Outcome{State: StateFailed, Reason: reason, Message: msg}
}

func (a *Acquirer) finish(out Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = out.State
	a.result = out.Location
	a.busy = false
	a.last = &out
}

// State returns the current step.
func (a *Acquirer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Busy reports whether a cycle is in flight.
func (a *Acquirer) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Result returns the current location, absent unless the last cycle obtained
// a fix.
func (a *Acquirer) Result() models.LocationResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// LastOutcome returns the outcome of the most recent finished cycle.
func (a *Acquirer) LastOutcome() (Outcome, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return Outcome{}, false
	}
	return *a.last, true
}
