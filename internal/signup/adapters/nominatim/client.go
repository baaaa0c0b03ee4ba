// Package nominatim reverse-geocodes coordinates with an OpenStreetMap
// Nominatim-compatible service.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboard/internal/signup/models"
	"onboard/internal/signup/upstream"
	"onboard/pkg/platform/circuit"
)

const (
	serviceName     = "nominatim"
	maxResponseSize = 1 << 20
	zoomLevel       = "18"
)

// reverseResponse is the subset of the /reverse body the workflow uses.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Client implements ports.Geocoder.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its timeout is kept as is.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) {
		cl.breaker = b
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

// New creates a client for baseURL. Every call is bounded by timeout.
func New(baseURL, userAgent string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: circuit.New(serviceName,
			circuit.WithFailureThreshold(5),
			circuit.WithSuccessThreshold(1),
			circuit.WithOpenTimeout(30*time.Second),
		),
		logger: slog.Default(),
		tracer: otel.Tracer("onboard/signup/nominatim"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reverse returns the display name for coords. Failures are *upstream.Error
// whose Message is suitable for the user.
func (c *Client) Reverse(ctx context.Context, coords models.Coordinates) (string, error) {
	ctx, span := c.tracer.Start(ctx, "nominatim.Reverse")
	defer span.End()

	address, err := c.reverse(ctx, coords)
	if err != nil {
		span.SetStatus(codes.Error, string(upstream.GetCategory(err)))
		span.SetAttributes(attribute.String("upstream.category", string(upstream.GetCategory(err))))
		return "", err
	}
	return address, nil
}

func (c *Client) reverse(ctx context.Context, coords models.Coordinates) (string, error) {
	if !c.breaker.Allow() {
		return "", upstream.NewError(upstream.ErrorCircuitOpen, serviceName,
			"Geocoding service is temporarily unavailable.", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.reverseURL(coords), nil)
	if err != nil {
		return "", upstream.NewError(upstream.ErrorInternal, serviceName, "could not build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		return "", upstream.NewError(upstream.CategoryForTransport(err), serviceName, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		category := upstream.CategoryForStatus(resp.StatusCode)
		if category == upstream.ErrorOutage || category == upstream.ErrorTimeout {
			c.recordFailure(ctx)
		}
		return "", upstream.NewError(category, serviceName,
			fmt.Sprintf("HTTP error! status: %d", resp.StatusCode), nil)
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "geocoder circuit closed", "breaker", c.breaker.Name())
	}

	var body reverseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return "", upstream.NewError(upstream.ErrorBadData, serviceName, "Invalid response from geocoding service.", err)
	}
	switch {
	case strings.TrimSpace(body.DisplayName) != "":
		return body.DisplayName, nil
	case body.Error != "":
		return "", upstream.NewError(upstream.ErrorNotFound, serviceName, "Geocoding error: "+body.Error, nil)
	}
	return "", upstream.NewError(upstream.ErrorNotFound, serviceName, "No address found for coordinates.", nil)
}

func (c *Client) reverseURL(coords models.Coordinates) string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", coords.LatitudeString())
	q.Set("lon", coords.LongitudeString())
	q.Set("zoom", zoomLevel)
	q.Set("addressdetails", "1")
	return c.baseURL + "/reverse?" + q.Encode()
}

func (c *Client) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "geocoder circuit opened", "breaker", c.breaker.Name())
	}
}
