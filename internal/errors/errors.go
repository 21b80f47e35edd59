// Package errors provides structured error types for the CRM service.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNilUser            = errors.New("authenticated state requires a user")
	ErrAlreadyHydrated    = errors.New("session store already hydrated")
	ErrDuplicateSeries    = errors.New("duplicate series name")
	ErrLengthMismatch     = errors.New("series length does not match label count")
	ErrUnavailable        = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timed out")
)

// ValidationError reports a bad record in the fixture book or an API payload.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a validation error for a named field.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// DeliveryError reports a failed outbound notification attempt.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// IsRetryable reports whether the error is likely transient and worth retrying.
// Only outbound delivery failures qualify; everything else in this service is
// a pure computation over in-process data.
func IsRetryable(err error) bool {
	var derr *DeliveryError
	if errors.As(err, &derr) {
		return true
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
}
