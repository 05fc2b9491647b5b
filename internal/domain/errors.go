package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRegistryUnavailable is returned when the provider registry cannot
	// produce the active provider set; this fails the whole request
	ErrRegistryUnavailable = errors.New("provider registry unavailable")

	// ErrProviderFailure is returned when a single provider's search fails
	ErrProviderFailure = errors.New("provider search failed")

	// ErrStatusNotFound is returned when no status is stored for a request id
	ErrStatusNotFound = errors.New("search status not found")

	// ErrStoreUnavailable is returned when the state store is unreachable
	ErrStoreUnavailable = errors.New("state store unavailable")
)
