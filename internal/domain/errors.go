package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel matched by errors.Is for any rejected input.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError describes a single rejected input value.
type ParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParameterError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %s=%s: %s", e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// NewParameterError creates a ParameterError.
func NewParameterError(field, value, reason string) error {
	return &ParameterError{Field: field, Value: value, Reason: reason}
}
