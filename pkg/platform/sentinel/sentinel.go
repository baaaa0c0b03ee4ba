// Package sentinel holds infrastructure facts that stores report and services
// translate into coded domain errors.
package sentinel

import "errors"

var (
	// ErrNotFound means no entry exists for the key.
	ErrNotFound = errors.New("not found")

	// ErrExpired means the entry existed but outlived its idle TTL.
	ErrExpired = errors.New("expired")

	// ErrUnavailable means a collaborator is not configured or not reachable.
	ErrUnavailable = errors.New("unavailable")
)
