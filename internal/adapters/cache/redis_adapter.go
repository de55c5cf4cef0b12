package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	redisclient "github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/redis"
)

// RedisAdapter implements CacheProvider on Redis. It is the production
// cache; instances sharing one Redis accept stale-but-valid reads within
// TTL.
type RedisAdapter struct {
	rdb *redis.Client
}

// NewRedisAdapter creates the adapter over an established connection.
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{rdb: client.Client()}
}

func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := a.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("cache miss for %s", key)
	case err != nil:
		return nil, fmt.Errorf("failed to read from cache: %w", err)
	}
	return value, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	ttl := time.Duration(expirationSeconds) * time.Second
	if err := a.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache key: %w", err)
	}
	return n > 0, nil
}
