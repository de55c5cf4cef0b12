package cache

import (
	"context"
	"fmt"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
)

// NoopAdapter implements the CacheProvider interface without storing
// anything. Every read misses and every write succeeds, so services built
// against the cache behave identically with caching disabled.
type NoopAdapter struct{}

// NewNoopAdapter creates a cache adapter that never stores values
func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

var _ providers.CacheProvider = (*NoopAdapter)(nil)

// Get always reports a miss
func (a *NoopAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("key not found: %s", key)
}

// Set discards the value
func (a *NoopAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return nil
}

// Delete is a no-op
func (a *NoopAdapter) Delete(ctx context.Context, key string) error {
	return nil
}

// Exists always reports absent
func (a *NoopAdapter) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}
