package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by generation providers.
var (
	// ErrUpstream is returned when the generation service answers with a non-success status.
	ErrUpstream = errors.New("generation service returned an error status")

	// ErrMalformedResponse is returned when the generation service response is not in the expected shape.
	ErrMalformedResponse = errors.New("unexpected generation response format")

	// ErrEmptyContent is returned when generation produced no usable text after cleanup.
	ErrEmptyContent = errors.New("failed to generate blog content")

	// ErrInvalidConfig is returned when a generator is constructed with invalid configuration.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// maxErrorBodyLength caps how much of an upstream body is kept on an UpstreamError.
const maxErrorBodyLength = 2048

// UpstreamError carries the status code and raw body of a failed generation call.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

// NewUpstreamError builds an UpstreamError, truncating very large bodies.
func NewUpstreamError(provider string, statusCode int, body string) *UpstreamError {
	if len(body) > maxErrorBodyLength {
		body = body[:maxErrorBodyLength]
	}
	return &UpstreamError{Provider: provider, StatusCode: statusCode, Body: body}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API request failed with status code: %d", e.Provider, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// MalformedResponse wraps ErrMalformedResponse with a description of what was wrong.
func MalformedResponse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
