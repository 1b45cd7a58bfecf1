// Package apperrors defines the domain error taxonomy shared by the
// repository, service, and handler layers. Handlers map these sentinels to
// HTTP statuses; callers should match with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced event or registration does not exist.
var ErrNotFound = errors.New("not found")

// ErrCapacityExceeded is returned when a registration is attempted against a full event.
var ErrCapacityExceeded = errors.New("event is at capacity")

// ErrDuplicateRegistration is returned when a user already holds an active
// registration for the event.
var ErrDuplicateRegistration = errors.New("user already has an active registration")

// ErrValidation is returned when input fails validation before any write is attempted.
var ErrValidation = errors.New("validation failed")

// ErrStoreUnavailable is returned when an underlying store call fails. The
// caller may retry with backoff; the service layer never retries on its own.
var ErrStoreUnavailable = errors.New("store unavailable")

// Validationf wraps ErrValidation with a human-readable reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Unavailable wraps a store-level failure so callers can detect it with
// errors.Is(err, ErrStoreUnavailable) while keeping the operation context.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
