package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures.
var (
	ErrInvalidVehicle = errors.New("invalid vehicle")
	ErrInvalidSlug    = errors.New("invalid slug")
	ErrInvalidVIN     = errors.New("invalid VIN")
	ErrUnknownTier    = errors.New("unknown tier")
	ErrUnknownBrand   = errors.New("unknown brand")
	ErrScoreRange     = errors.New("score out of range")
)

// ValidationError wraps a sentinel with context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
