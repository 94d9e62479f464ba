package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuery signals a failed call to the remote search API.
	ErrQuery = errors.New("query error")
	// ErrNotSupported signals an operation the remote search API has no endpoint for.
	ErrNotSupported = errors.New("not supported")
	// ErrMalformedResponse signals a response missing a key the API contract guarantees.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// QueryError wraps a transport failure or a non-2xx status from the search API.
// Status is 0 when no HTTP response was received.
type QueryError struct {
	Status int
	Cause  error
}

func (e *QueryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("error querying API: status %d: %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("error querying API: %v", e.Cause)
}

// Unwrap exposes both ErrQuery and the underlying cause to errors.Is/As.
func (e *QueryError) Unwrap() []error { return []error{ErrQuery, e.Cause} }

// NewQueryError creates a query error for the given HTTP status (0 if none) and cause.
func NewQueryError(status int, cause error) error {
	return &QueryError{Status: status, Cause: cause}
}

// MissingKeyError reports a required key absent from a response object.
type MissingKeyError struct {
	Object string
	Key    string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: %s: missing key %q", ErrMalformedResponse.Error(), e.Object, e.Key)
}

func (e *MissingKeyError) Unwrap() error { return ErrMalformedResponse }
