package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across the store, cache and service layers. Callers should
// match with errors.Is, the concrete types below carry the details.
var (
	ErrNotFound   = errors.New("catalog item not found")
	ErrValidation = errors.New("catalog item validation failed")
	ErrConflict   = errors.New("catalog item conflict")
)

// NotFoundError is returned when a lookup, update or delete by public id finds
// no record.
type NotFoundError struct {
	PublicID uuid.UUID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog item %s not found", e.PublicID)
}

// Is makes NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError wraps field level failures detected before any store
// interaction. Err is usually an ozzo validation.Errors map.
type ValidationError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Op == "" {
		return "validation failed: " + e.Err.Error()
	}
	return e.Op + ": validation failed: " + e.Err.Error()
}

// Unwrap exposes the underlying field errors.
func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError from a plain message.
func NewValidationError(op, msg string) error {
	return &ValidationError{Op: op, Err: errors.New(msg)}
}

// IsNotFound reports whether err is a not-found outcome.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
