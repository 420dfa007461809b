package forecast

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrAccessTokenRequired is returned by New when no token is given
	ErrAccessTokenRequired = errors.New("forecast access token is required")
	// ErrAccountIDRequired is returned by New when the account id is zero
	ErrAccountIDRequired = errors.New("forecast account id is required")
	// ErrInvalidBaseURL indicates an unusable base URL option
	ErrInvalidBaseURL = errors.New("invalid forecast base URL")

	// ErrMalformedEnvelope indicates the response lacked the expected container key
	ErrMalformedEnvelope = errors.New("malformed response envelope")
	// ErrDecodeFailure indicates the payload could not be mapped to the requested shape
	ErrDecodeFailure = errors.New("failed to decode response payload")
	// ErrMalformedEntity indicates a required field was missing or had the wrong type
	ErrMalformedEntity = errors.New("malformed entity")
)

// maxErrorBody caps how much of a failed response is kept on HTTPError.
const maxErrorBody = 1024

// HTTPError is returned for any non-2xx response. The body is kept verbatim
// and never parsed.
type HTTPError struct {
	StatusCode int
	Status     string
	Method     string
	URL        string
	Body       string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("forecast API error: %s %s: %s", e.Method, e.URL, status)
}

// IsNotFound checks if the error indicates a not found response
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// EnvelopeError is returned when the body is not an object holding Key.
type EnvelopeError struct {
	Key string
	Err error
}

func (e *EnvelopeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: expected container %q: %v", ErrMalformedEnvelope, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: container %q not found", ErrMalformedEnvelope, e.Key)
}

func (e *EnvelopeError) Unwrap() error { return e.Err }

func (e *EnvelopeError) Is(target error) bool {
	return target == ErrMalformedEnvelope
}

// DecodeError is returned when an unwrapped payload cannot be decoded.
// Field names the offending wire key when it is known. Index is the 1-based
// position inside a collection, or 0 for a single entity.
type DecodeError struct {
	Entity string
	Field  string
	Index  int
	Err    error

	// shape is set when the payload was not an object (or array of objects)
	// at all, as opposed to an object with a bad field.
	shape bool
}

func (e *DecodeError) Error() string {
	what := e.Entity
	if e.Index > 0 {
		what = fmt.Sprintf("%s #%d", e.Entity, e.Index)
	}
	if e.Field != "" {
		return fmt.Sprintf("decode %s: field %q: %v", what, e.Field, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", what, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches ErrDecodeFailure for every decode error and ErrMalformedEntity
// for errors inside an entity object.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrDecodeFailure:
		return true
	case ErrMalformedEntity:
		return !e.shape
	}
	return false
}

// TransportError wraps a failure of the HTTP transport itself. Context
// cancellation stays visible through errors.Is.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("forecast request %s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
