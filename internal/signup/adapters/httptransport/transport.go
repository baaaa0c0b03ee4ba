// Package httptransport delivers sign-up payloads as multipart/form-data.
//
// The document part is built from the bytes carried by the payload. The
// document uri is a device-side descriptor and is never opened here.
package httptransport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboard/internal/signup/models"
	"onboard/internal/signup/upstream"
	dErrors "onboard/pkg/domain-errors"
)

const (
	serviceName  = "signup"
	maxErrorBody = 4 << 10
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Client implements ports.Transport.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(cl *Client) {
		cl.tracer = tracer
	}
}

// New creates a transport posting to endpoint. Every send is bounded by
// timeout.
func New(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
		tracer:     otel.Tracer("onboard/signup/httptransport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send encodes payload and POSTs it. Non-2xx answers are *upstream.Error.
func (c *Client) Send(ctx context.Context, payload models.SubmissionPayload) error {
	ctx, span := c.tracer.Start(ctx, "httptransport.Send")
	defer span.End()

	err := c.send(ctx, payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("upstream.category", string(upstream.GetCategory(err))))
	}
	return err
}

func (c *Client) send(ctx context.Context, payload models.SubmissionPayload) error {
	switch n := payload.ContentLength(); {
	case n == 0:
		return dErrors.New(dErrors.CodeConflict, "document content has not been uploaded")
	case n > models.MaxDocumentBytes:
		return dErrors.New(dErrors.CodeInvalidInput, "document exceeds the size limit")
	}

	var body bytes.Buffer
	contentType, err := Encode(&body, payload, payload.Content())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return upstream.NewError(upstream.ErrorInternal, serviceName, "could not build request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return upstream.NewError(upstream.CategoryForTransport(err), serviceName, "Network request failed.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WarnContext(ctx, "sign-up endpoint rejected submission",
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return upstream.NewError(upstream.CategoryForStatus(resp.StatusCode), serviceName,
			fmt.Sprintf("HTTP error! status: %d", resp.StatusCode), nil)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

// Encode writes payload as multipart/form-data to w, streaming the document
// bytes from content, and returns the Content-Type header value.
func Encode(w io.Writer, payload models.SubmissionPayload, content io.Reader) (string, error) {
	mw := multipart.NewWriter(w)
	for _, f := range payload.Fields() {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	doc := payload.Document()
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(doc.FieldName), quoteEscaper.Replace(doc.Name)))
	h.Set("Content-Type", doc.Type)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create document part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}
	return mw.FormDataContentType(), nil
}
