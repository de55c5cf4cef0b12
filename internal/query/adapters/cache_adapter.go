package adapters

import (
	"context"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
)

// QueryCacheAdapter narrows the domain CacheProvider to the surface the query
// services consume, translating duration TTLs to the provider's seconds.
type QueryCacheAdapter struct {
	provider providers.CacheProvider
}

func NewQueryCacheAdapter(provider providers.CacheProvider) *QueryCacheAdapter {
	return &QueryCacheAdapter{provider: provider}
}

func (a *QueryCacheAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return a.provider.Get(ctx, key)
}

func (a *QueryCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return a.provider.Set(ctx, key, value, int(ttl.Seconds()))
}
