package providers

import "context"

// CacheProvider is the byte-oriented cache behind search responses, HTTP
// read routes, and substitution lookups. It is an optimization layer only:
// every engine result must be identical whether it is backed by Redis, the
// in-memory store, or the no-op implementation.
type CacheProvider interface {
	// Get returns the stored bytes, or an error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for expirationSeconds.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete drops the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present without reading it.
	Exists(ctx context.Context, key string) (bool, error)
}
