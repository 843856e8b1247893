package movies

import "errors"

// Sentinel errors forming the service's failure taxonomy. Boundary layers
// map these with errors.Is.
var (
	// ErrNotFound means the movie is unknown to both cache and provider.
	ErrNotFound = errors.New("movie not found")

	// ErrUpstream wraps failures of the external provider (network,
	// timeout, malformed or error responses).
	ErrUpstream = errors.New("upstream provider error")

	// ErrInvalidQuery marks malformed client query parameters.
	ErrInvalidQuery = errors.New("invalid query")
)
