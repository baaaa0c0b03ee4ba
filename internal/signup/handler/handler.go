// Package handler exposes sign-up workflows over HTTP for thin mobile
// clients. The client performs device interactions itself and reports their
// outcomes; the server owns workflow state, geocoding and submission.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"onboard/internal/platform/metrics"
	"onboard/internal/platform/middleware"
	"onboard/internal/signup/document"
	"onboard/internal/signup/location"
	"onboard/internal/signup/models"
	"onboard/internal/signup/ports"
	"onboard/internal/signup/service"
	"onboard/internal/signup/validation"
	"onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
)

const maxBodyBytes = 64 << 10

// Service defines the workflow operations the handler needs.
type Service interface {
	Start(ctx context.Context, role models.Role) (*service.Workflow, error)
	Get(ctx context.Context, id domain.WorkflowID) (service.View, error)
	SetField(ctx context.Context, id domain.WorkflowID, field models.Field, value string) error
	ToggleVisibility(ctx context.Context, id domain.WorkflowID, which models.Toggle) (bool, error)
	AcquireLocation(ctx context.Context, id domain.WorkflowID, device location.Device) (location.Outcome, error)
	PickDocument(ctx context.Context, id domain.WorkflowID, picker ports.MediaPicker) (document.Outcome, error)
	UploadDocument(ctx context.Context, id domain.WorkflowID, content []byte) error
	Validate(ctx context.Context, id domain.WorkflowID, mode validation.Mode) (models.ValidationErrors, error)
	Submit(ctx context.Context, id domain.WorkflowID) (models.ValidationErrors, error)
	Abandon(ctx context.Context, id domain.WorkflowID) error
}

// Handler serves /signup/workflows.
type Handler struct {
	signup         Service
	logger         *slog.Logger
	metrics        *metrics.Metrics
	requestTimeout time.Duration
}

// New creates a sign-up Handler. requestTimeout bounds every request and must
// exceed the geocoder and submission timeouts.
func New(signup Service, logger *slog.Logger, metrics *metrics.Metrics, requestTimeout time.Duration) *Handler {
	return &Handler{
		signup:         signup,
		logger:         logger,
		metrics:        metrics,
		requestTimeout: requestTimeout,
	}
}

// Register registers the sign-up routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	signupRouter := chi.NewRouter()
	signupRouter.Use(middleware.Recovery(h.logger))
	signupRouter.Use(middleware.RequestID)
	signupRouter.Use(middleware.RequestTime)
	signupRouter.Use(middleware.ClientMetadata)
	signupRouter.Use(middleware.Logger(h.logger))
	signupRouter.Use(middleware.Timeout(h.requestTimeout))
	signupRouter.Use(middleware.LatencyMiddleware(h.metrics))

	// raw image bytes, the only non-JSON body
	signupRouter.Put("/signup/workflows/{id}/document/content", h.handleUploadDocument)

	signupRouter.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/signup/workflows", h.handleStart)
		r.Route("/signup/workflows/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleAbandon)
			r.Put("/fields/{field}", h.handleSetField)
			r.Post("/toggles/{toggle}", h.handleToggle)
			r.Post("/location", h.handleLocation)
			r.Post("/document", h.handleDocument)
			r.Post("/validate", h.handleValidate)
			r.Post("/submit", h.handleSubmit)
		})
	})

	r.Mount("/", signupRouter)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req StartRequest
	if r.ContentLength != 0 {
		if !h.decode(w, r, &req) {
			return
		}
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	wf, err := h.signup.Start(ctx, role)
	if err != nil {
		h.fail(ctx, w, "start workflow", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, StartResponse{WorkflowID: wf.ID.String()})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	view, err := h.signup.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get workflow", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAbandon(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	if err := h.signup.Abandon(ctx, id); err != nil {
		h.fail(ctx, w, "abandon workflow", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	field, err := models.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req FieldRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.signup.SetField(ctx, id, field, *req.Value); err != nil {
		h.fail(ctx, w, "set field", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	toggle, err := models.ParseToggle(chi.URLParam(r, "toggle"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	visible, err := h.signup.ToggleVisibility(ctx, id, toggle)
	if err != nil {
		h.fail(ctx, w, "toggle visibility", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToggleResponse{Visible: visible})
}

func (h *Handler) handleLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	var req LocationRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.signup.AcquireLocation(ctx, id, req.Device())
	if err != nil {
		h.fail(ctx, w, "acquire location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, service.NewLocationView(out))
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	var req DocumentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.signup.PickDocument(ctx, id, req.Picker())
	if err != nil {
		h.fail(ctx, w, "pick document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, service.NewDocumentView(out))
}

// handleUploadDocument receives the bytes of the selected document image. The
// asset uri reported by the picker points into the device and is never read
// by the server.
func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !(strings.HasPrefix(mediaType, "image/") || mediaType == "application/octet-stream") {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Content-Type must be an image type"))
			return
		}
	}
	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, models.MaxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "document exceeds the size limit"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "could not read document content"))
		return
	}
	if err := h.signup.UploadDocument(ctx, id, content); err != nil {
		h.fail(ctx, w, "upload document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	mode := validation.ModeFirst
	switch strings.ToLower(r.URL.Query().Get("mode")) {
	case "", "first":
	case "all":
		mode = validation.ModeAll
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mode must be first or all"))
		return
	}
	errs, err := h.signup.Validate(ctx, id, mode)
	if err != nil {
		h.fail(ctx, w, "validate workflow", err)
		return
	}
	if errs == nil {
		errs = models.ValidationErrors{}
	}
	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{Valid: len(errs) == 0, Errors: errs})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.workflowID(w, r)
	if !ok {
		return
	}
	errs, err := h.signup.Submit(ctx, id)
	if err != nil {
		h.fail(ctx, w, "submit workflow", err)
		return
	}
	if first, failed := errs.First(); failed {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, ValidationFailedResponse{
			Error:            string(dErrors.CodeValidation),
			ErrorDescription: first.Message,
			Errors:           errs,
		})
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, SubmitResponse{Status: "submitted"})
}

func (h *Handler) workflowID(w http.ResponseWriter, r *http.Request) (domain.WorkflowID, bool) {
	id, err := domain.ParseWorkflowID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.WorkflowID{}, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
			return false
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// fail logs and renders err. Coded errors pass through; anything else is
// reported as internal.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code := dErrors.CodeOf(err)
	args := []any{
		"request_id", middleware.GetRequestID(ctx),
		"op", op,
		"error", err.Error(),
	}
	switch code {
	case dErrors.CodeInternal, dErrors.CodeUpstream, dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, "sign-up request failed", args...)
	default:
		h.logger.InfoContext(ctx, "sign-up request rejected", args...)
	}
	httputil.WriteError(w, err)
}
