package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when caller input fails validation.
	// This is often wrapped with a more specific error.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTopic is returned when a request carries no topic.
	ErrEmptyTopic = fmt.Errorf("%w: empty topic", ErrValidation)

	// ErrInvalidFormat is returned when the request body is not in the expected shape.
	ErrInvalidFormat = fmt.Errorf("%w: invalid input format", ErrValidation)

	// ErrConfiguration is returned when a setting required at request time is missing.
	ErrConfiguration = errors.New("required configuration missing")
)

// ValidationError describes which input field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping err.
// If err is nil, ErrValidation is used.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConfigurationError names the setting that was missing when it was needed.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not configured", e.Setting)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
