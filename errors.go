package cprsearch

import "github.com/kailas-cloud/cprsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrQuery             = domain.ErrQuery
	ErrNotSupported      = domain.ErrNotSupported
	ErrMalformedResponse = domain.ErrMalformedResponse
)

// QueryError carries the HTTP status of a failed API call (0 when the request
// never got a response). Use errors.As() to extract it.
type QueryError = domain.QueryError

// MissingKeyError names the required response key the API omitted.
type MissingKeyError = domain.MissingKeyError
