package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrNotFound           = errors.New("not found")
	ErrRemoteUnavailable  = errors.New("remote store unavailable")
	ErrValidationFailed   = errors.New("validation failed")
	ErrDuplicateOperation = errors.New("duplicate operation")
)

// ValidationError describes a rejected input value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Invalid builds a ValidationError for the field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
