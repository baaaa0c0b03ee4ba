// Package service runs sign-up workflows: one in-memory state object per
// attempt, driven by field writes, capability outcomes and a final submit.
package service

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboard/internal/platform/middleware"
	"onboard/internal/signup/document"
	"onboard/internal/signup/form"
	"onboard/internal/signup/location"
	"onboard/internal/signup/metrics"
	"onboard/internal/signup/models"
	"onboard/internal/signup/ports"
	"onboard/internal/signup/submission"
	"onboard/internal/signup/upstream"
	"onboard/internal/signup/validation"
	"onboard/pkg/attrs"
	"onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

const (
	eventWorkflowStarted   = "signup_workflow_started"
	eventWorkflowAbandoned = "signup_workflow_abandoned"
	eventWorkflowExpired   = "signup_workflow_expired"
	eventSubmitted         = "signup_submitted"
)

var (
	// ErrSubmitBusy is returned when a submission is already in flight.
	ErrSubmitBusy = dErrors.New(dErrors.CodeBusy, "submission already in progress")

	ErrNoDocumentSelected  = dErrors.New(dErrors.CodeConflict, "select a document before uploading it")
	ErrDocumentNotUploaded = dErrors.New(dErrors.CodeConflict, "document content has not been uploaded")
)

// Service owns every live workflow.
type Service struct {
	geocoder  ports.Geocoder
	transport ports.Transport
	workflows *registry

	positionOpts  ports.PositionOptions
	pickerQuality float64

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithTransport sets the submission transport. Without one, Submit fails
// with service_unavailable after validation.
func WithTransport(t ports.Transport) Option {
	return func(s *Service) {
		s.transport = t
	}
}

func WithPositionOptions(opts ports.PositionOptions) Option {
	return func(s *Service) {
		s.positionOpts = opts
	}
}

func WithPickerQuality(q float64) Option {
	return func(s *Service) {
		s.pickerQuality = q
	}
}

// WithIdleTTL sets how long an untouched workflow survives. Zero disables
// expiry.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.workflows.ttl = ttl
	}
}

// New constructs a Service resolving addresses with geocoder.
func New(geocoder ports.Geocoder, opts ...Option) *Service {
	s := &Service{
		geocoder:      geocoder,
		workflows:     newRegistry(30 * time.Minute),
		positionOpts:  location.DefaultPositionOptions,
		pickerQuality: document.DefaultPickerOptions.Quality,
		logger:        slog.Default(),
		tracer:        otel.Tracer("onboard/signup/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates an empty workflow for role.
func (s *Service) Start(ctx context.Context, role models.Role) (*Workflow, error) {
	if role == "" {
		role = models.RoleHomeOwner
	}
	if role != models.RoleHomeOwner && role != models.RoleServiceProvider {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown role: "+string(role))
	}

	now := requestcontext.Now(ctx)
	store := form.NewStore()
	w := &Workflow{
		ID:        domain.NewWorkflowID(),
		Role:      role,
		CreatedAt: now,
		form:      store,
		acquirer: location.New(s.geocoder, store,
			location.WithLogger(s.logger),
			location.WithMetrics(s.metrics),
			location.WithPositionOptions(s.positionOpts),
		),
		picker: document.New(
			document.WithLogger(s.logger),
			document.WithMetrics(s.metrics),
			document.WithQuality(s.pickerQuality),
		),
		lastActive: now,
	}
	s.workflows.add(w)
	s.metrics.SetLiveWorkflows(s.workflows.len())
	s.logAudit(ctx, eventWorkflowStarted,
		"workflow_id", w.ID.String(),
		"role", string(role))
	return w, nil
}

// Get returns a snapshot of the workflow.
func (s *Service) Get(ctx context.Context, id domain.WorkflowID) (View, error) {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return View{}, err
	}
	return w.view(), nil
}

// SetField replaces one form field.
func (s *Service) SetField(ctx context.Context, id domain.WorkflowID, field models.Field, value string) error {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	w.form.SetField(field, value)
	return nil
}

// ToggleVisibility flips a password visibility flag and returns its new value.
func (s *Service) ToggleVisibility(ctx context.Context, id domain.WorkflowID, which models.Toggle) (bool, error) {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return false, err
	}
	return w.form.ToggleVisibility(which), nil
}

// AcquireLocation runs one location cycle against device. A cycle already in
// flight yields a busy error and changes nothing.
func (s *Service) AcquireLocation(ctx context.Context, id domain.WorkflowID, device location.Device) (location.Outcome, error) {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return location.Outcome{}, err
	}
	annotateSpan(ctx, w)
	out, err := w.acquirer.Acquire(ctx, device)
	if err != nil {
		return location.Outcome{}, err
	}
	w.touch(requestcontext.Now(ctx))
	return out, nil
}

// PickDocument runs one media selection against picker.
func (s *Service) PickDocument(ctx context.Context, id domain.WorkflowID, picker ports.MediaPicker) (document.Outcome, error) {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return document.Outcome{}, err
	}
	out, err := w.picker.Pick(ctx, picker)
	if err != nil {
		return document.Outcome{}, err
	}
	w.recordPick(out)
	w.touch(requestcontext.Now(ctx))
	return out, nil
}

// UploadDocument attaches the image bytes of the currently selected document.
// The bytes stay bound to that selection; picking another asset requires a
// new upload.
func (s *Service) UploadDocument(ctx context.Context, id domain.WorkflowID, content []byte) error {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case len(content) == 0:
		return dErrors.New(dErrors.CodeBadRequest, "document content is empty")
	case len(content) > models.MaxDocumentBytes:
		return dErrors.New(dErrors.CodeBadRequest, "document exceeds the size limit")
	}
	if w.picker.Busy() {
		return document.ErrBusy
	}
	selected := w.picker.Selected()
	if selected.IsZero() {
		return ErrNoDocumentSelected
	}
	w.attachContent(selected.URI, content)
	w.touch(requestcontext.Now(ctx))
	s.logger.InfoContext(ctx, "document content uploaded",
		"workflow_id", w.ID.String(),
		"bytes", len(content),
	)
	return nil
}

// Validate checks the current form without submitting it.
func (s *Service) Validate(ctx context.Context, id domain.WorkflowID, mode validation.Mode) (models.ValidationErrors, error) {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	errs := validation.Run(mode, w.form.Snapshot(), w.picker.Selected())
	s.recordValidation(errs)
	return errs, nil
}

// Submit validates, assembles and sends the workflow's payload. Validation
// failures are returned as the first result and leave the workflow intact.
// On successful delivery the workflow is discarded.
func (s *Service) Submit(ctx context.Context, id domain.WorkflowID) (models.ValidationErrors, error) {
	w, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.beginSubmit() {
		return nil, ErrSubmitBusy
	}
	defer w.endSubmit()

	ctx, span := s.tracer.Start(ctx, "signup.Submit")
	defer span.End()
	annotateSpan(ctx, w)

	selected := w.picker.Selected()
	payload, errs := submission.Assemble(ctx, submission.Input{
		Fields:   w.form.Snapshot(),
		Role:     w.Role,
		Location: w.acquirer.Result(),
		Document: selected,
	})
	if len(errs) > 0 {
		s.recordValidation(errs)
		s.metrics.IncSubmission("invalid")
		span.SetAttributes(attribute.String("validation.code", string(errs[0].Code)))
		return errs, nil
	}
	content := w.contentFor(selected.URI)
	if content == nil {
		s.metrics.IncSubmission("not_uploaded")
		return nil, ErrDocumentNotUploaded
	}
	payload = payload.WithContent(content)

	if s.transport == nil {
		s.metrics.IncSubmission("unavailable")
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable, "submission endpoint is not configured")
	}

	start := time.Now()
	err = s.transport.Send(ctx, payload)
	s.metrics.ObserveSubmit(start)
	if err != nil {
		s.metrics.IncSubmission("failed")
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "submission failed",
			"workflow_id", w.ID.String(),
			"category", upstream.GetCategory(err),
			"error", err,
		)
		return nil, translateSendError(err)
	}

	s.workflows.remove(w.ID)
	s.metrics.IncSubmission("sent")
	s.metrics.SetLiveWorkflows(s.workflows.len())
	s.logAudit(ctx, eventSubmitted,
		"workflow_id", w.ID.String(),
		"role", string(w.Role),
		"with_location", w.acquirer.Result().IsPresent())
	return nil, nil
}

// Abandon discards the workflow.
func (s *Service) Abandon(ctx context.Context, id domain.WorkflowID) error {
	if !s.workflows.remove(id) {
		return dErrors.New(dErrors.CodeNotFound, "workflow not found")
	}
	s.metrics.SetLiveWorkflows(s.workflows.len())
	s.logAudit(ctx, eventWorkflowAbandoned, "workflow_id", id.String())
	return nil
}

// StartCleanup evicts idle workflows every interval until ctx is cancelled.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) error {
	return s.workflows.startCleanup(ctx, interval, func(removed []domain.WorkflowID) {
		s.metrics.SetLiveWorkflows(s.workflows.len())
		for _, id := range removed {
			s.logAudit(ctx, eventWorkflowExpired, "workflow_id", id.String())
		}
	})
}

// RemoveExpiredAt evicts idle workflows as of now and returns how many were
// dropped. Exported for testability; background cleanup passes wall-clock time.
func (s *Service) RemoveExpiredAt(ctx context.Context, now time.Time) int {
	removed := s.workflows.removeExpiredAt(now)
	if len(removed) > 0 {
		s.metrics.SetLiveWorkflows(s.workflows.len())
	}
	for _, id := range removed {
		s.logAudit(ctx, eventWorkflowExpired, "workflow_id", id.String())
	}
	return len(removed)
}

// Live returns the number of workflows held in memory.
func (s *Service) Live() int {
	return s.workflows.len()
}

func (s *Service) lookup(ctx context.Context, id domain.WorkflowID) (*Workflow, error) {
	w, err := s.workflows.get(id, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrExpired) {
			s.metrics.SetLiveWorkflows(s.workflows.len())
			s.logAudit(ctx, eventWorkflowExpired, "workflow_id", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "workflow not found")
	}
	return w, nil
}

func (s *Service) recordValidation(errs models.ValidationErrors) {
	for _, e := range errs {
		s.metrics.IncValidationFailure(string(e.Code))
	}
}

// translateSendError keeps coded errors and maps everything else to an
// upstream failure carrying the user-facing message.
func translateSendError(err error) error {
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeUpstream, upstream.UserMessage(err))
}

func annotateSpan(ctx context.Context, w *Workflow) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("workflow_id", w.ID.String()))
}

// spanAttributes mirrors the string-valued audit pairs onto a span event in
// key order.
func spanAttributes(kv []any) []attribute.KeyValue {
	pairs := attrs.Strings(kv)
	out := make([]attribute.KeyValue, 0, len(pairs))
	for _, k := range slices.Sorted(maps.Keys(pairs)) {
		out = append(out, attribute.String(k, pairs[k]))
	}
	return out
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if attrs.ExtractString(attributes, "workflow_id") != "" {
		trace.SpanFromContext(ctx).AddEvent(event, trace.WithAttributes(spanAttributes(attributes)...))
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
}
