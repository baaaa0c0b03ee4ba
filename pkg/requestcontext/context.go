// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
//
// Usage in services (read values):
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//	platform := requestcontext.ClientPlatform(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithClientPlatform(ctx, requestcontext.PlatformIOS)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey      struct{}
	requestTimeKey    struct{}
	userAgentKey      struct{}
	clientPlatformKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID      = requestIDKey{}
	ContextKeyRequestTime    = requestTimeKey{}
	ContextKeyUserAgent      = userAgentKey{}
	ContextKeyClientPlatform = clientPlatformKey{}
)

// Platform is the mobile operating system family a request originates from.
type Platform string

const (
	PlatformUnknown Platform = "unknown"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// UserAgent retrieves the raw User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithUserAgent injects the raw User-Agent into the context.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, ContextKeyUserAgent, userAgent)
}

// ClientPlatform retrieves the client platform, PlatformUnknown if not set.
func ClientPlatform(ctx context.Context) Platform {
	if p, ok := ctx.Value(ContextKeyClientPlatform).(Platform); ok {
		return p
	}
	return PlatformUnknown
}

// WithClientPlatform injects the client platform into the context.
func WithClientPlatform(ctx context.Context, platform Platform) context.Context {
	return context.WithValue(ctx, ContextKeyClientPlatform, platform)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like the registry janitor and tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
