// Package upstream normalizes failures of the remote services the sign-up
// workflow calls: the reverse geocoder and the sign-up endpoint.
package upstream

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy.
type ErrorCategory string

const (
	// ErrorTimeout indicates the service took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the service answered with an unusable body
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorOutage indicates a 5xx or connection failure
	ErrorOutage ErrorCategory = "outage"

	// ErrorRejected indicates a 4xx other than 404 and 429
	ErrorRejected ErrorCategory = "rejected"

	// ErrorNotFound indicates the service had no result for the input
	ErrorNotFound ErrorCategory = "not_found"

	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorCircuitOpen indicates the call was short-circuited locally
	ErrorCircuitOpen ErrorCategory = "circuit_open"

	ErrorInternal ErrorCategory = "internal"
)

// Error wraps a remote failure with its category. Message is safe to show
// to the user; Underlying is not.
type Error struct {
	Category   ErrorCategory
	Service    string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Service, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Service, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a categorized error. Retryable is informational only;
// the workflow never retries on its own.
func NewError(category ErrorCategory, service, message string, underlying error) *Error {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited ||
		category == ErrorCircuitOpen

	return &Error{
		Category:   category,
		Service:    service,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// CategoryForStatus maps a non-2xx HTTP status to a category.
func CategoryForStatus(status int) ErrorCategory {
	switch {
	case status == 404:
		return ErrorNotFound
	case status == 429:
		return ErrorRateLimited
	case status == 408 || status == 504:
		return ErrorTimeout
	case status >= 500:
		return ErrorOutage
	case status >= 400:
		return ErrorRejected
	}
	return ErrorBadData
}

// CategoryForTransport classifies an error returned by http.Client.Do.
func CategoryForTransport(err error) ErrorCategory {
	var netErr interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrorTimeout
	}
	return ErrorOutage
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error.
func GetCategory(err error) ErrorCategory {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Category
	}
	return ErrorInternal
}

// UserMessage returns the message to surface for err.
func UserMessage(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}
