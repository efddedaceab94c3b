// Package apierr contains the error taxonomy shared across the client:
// sentinel errors for stable matching plus helpers that map remote service
// responses into it.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation indicates invalid input caught locally, before any
	// network call is made.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with remote state (e.g. a team
	// already at capacity).
	ErrConflict = errors.New("conflict")

	// ErrNetwork indicates a transport-level failure
	ErrNetwork = errors.New("network error")

	// ErrRemote indicates the remote service failed internally
	ErrRemote = errors.New("remote service error")
)

// ValidationError creates a validation error with field context
func ValidationError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrValidation)
}

// NetworkError wraps a transport failure
func NetworkError(err error) error {
	return fmt.Errorf("%v: %w", err, ErrNetwork)
}

// FromStatus maps an HTTP status code returned by the remote service into
// the taxonomy. msg is the service-provided message, kept for display.
func FromStatus(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case status == http.StatusConflict:
		return fmt.Errorf("%s: %w", msg, ErrConflict)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, ErrValidation)
	default:
		return fmt.Errorf("%s (status %d): %w", msg, status, ErrRemote)
	}
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Message returns the display string for an error, or "" for nil. Components
// store this in their error field for the presentation layer.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
