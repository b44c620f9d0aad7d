package validation

import (
	"errors"
	"fmt"
	"math"
)

// ValidationError reports a calculator input that violates a documented
// precondition. It is the only error kind the calculators return.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewError builds a ValidationError for field with a formatted message.
func NewError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Finite rejects NaN and infinite inputs, which callers should have caught
// while parsing.
func Finite(field, label string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewError(field, "%s must be a finite number", label)
	}
	return nil
}

// NonNegative requires value >= 0.
func NonNegative(field, label string, value float64) error {
	if err := Finite(field, label, value); err != nil {
		return err
	}
	if value < 0 {
		return NewError(field, "%s must be non-negative", label)
	}
	return nil
}

// Positive requires value > 0.
func Positive(field, label string, value float64) error {
	if err := Finite(field, label, value); err != nil {
		return err
	}
	if value <= 0 {
		return NewError(field, "%s must be positive", label)
	}
	return nil
}

// Between requires min <= value <= max.
func Between(field, label string, value, min, max float64) error {
	if err := Finite(field, label, value); err != nil {
		return err
	}
	if value < min || value > max {
		return NewError(field, "%s must be between %g and %g", label, min, max)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
