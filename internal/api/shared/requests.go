package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxRequestBodyBytes bounds request bodies read by DecodeJSON.
const MaxRequestBodyBytes = 64 << 10

// Global validator instance for reuse
var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrMalformedBody is returned by DecodeJSON when the body is not a single
// JSON value of the expected shape.
var ErrMalformedBody = errors.New("malformed request body")

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON value", ErrMalformedBody)
	}
	return nil
}

// ValidateRequest validates v with its Validate method if it has one, and
// with struct tags otherwise.
func ValidateRequest(v any) error {
	if sv, ok := v.(interface{ Validate() error }); ok {
		return sv.Validate()
	}
	return validate.Struct(v)
}

// FirstInvalidField returns the JSON-facing name and tag of the first field
// that failed struct validation.
func FirstInvalidField(err error) (field, tag string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", "", false
	}
	return verrs[0].Field(), verrs[0].Tag(), true
}
