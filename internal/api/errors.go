package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/generation"
	"github.com/phrazzld/blogrelay/internal/storage"
	"github.com/phrazzld/blogrelay/internal/store"
)

// Client-facing error messages.
const (
	MsgTopicRequired      = "blog_topic is required"
	MsgTopicTooLong       = "blog_topic is too long"
	MsgInvalidInputFormat = "Invalid input format"
	MsgMalformedResponse  = "Unexpected API response format"
	MsgEmptyContent       = "Failed to generate blog content"
	MsgStorageFailed      = "Failed to store blog content"
	MsgReadFailed         = "Failed to read blog content"
	MsgBlogNotFound       = "Blog not found"
	MsgInvalidBlogKey     = "Invalid blog key"
	MsgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// The generation service answered, but not with success
	case errors.Is(err, generation.ErrUpstream):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var upstream *generation.UpstreamError
	var validation *domain.ValidationError
	var config *domain.ConfigurationError

	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return MsgInvalidInputFormat
	case errors.Is(err, domain.ErrEmptyTopic):
		return MsgTopicRequired
	case errors.As(err, &validation):
		if validation.Field == "blog_topic" && validation.Message == "is too long" {
			return MsgTopicTooLong
		}
		return MsgInvalidInputFormat

	case errors.As(err, &config):
		return config.Error()

	// Status code only; the upstream body stays in the logs
	case errors.As(err, &upstream):
		return upstream.Error()
	case errors.Is(err, generation.ErrMalformedResponse):
		return MsgMalformedResponse
	case errors.Is(err, generation.ErrEmptyContent):
		return MsgEmptyContent

	case errors.Is(err, storage.ErrInvalidKey):
		return MsgInvalidBlogKey
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return MsgBlogNotFound
	case errors.Is(err, storage.ErrStorage):
		return MsgStorageFailed

	default:
		return MsgUnexpected
	}
}
