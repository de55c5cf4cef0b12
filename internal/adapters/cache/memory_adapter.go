package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
)

const cleanupInterval = 5 * time.Minute

// entry is one cached value with its expiry
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryStats tracks in-memory cache effectiveness
type MemoryStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int
}

// MemoryAdapter implements the CacheProvider interface with an in-process
// map. Expired entries are dropped lazily on access and swept periodically.
// Intended for development and single-node deployments; semantics match the
// Redis adapter (last-write-wins per key).
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]entry
	stats   MemoryStats
	stop    chan struct{}
}

// NewMemoryAdapter creates a new in-memory cache adapter and starts its
// background sweep
func NewMemoryAdapter() *MemoryAdapter {
	a := &MemoryAdapter{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go a.sweepLoop()
	return a
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.entries[key]
	if !ok {
		a.stats.Misses++
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if e.expired(time.Now()) {
		delete(a.entries, key)
		a.stats.Misses++
		a.stats.Evictions++
		return nil, fmt.Errorf("key not found: %s", key)
	}

	a.stats.Hits++
	value := make([]byte, len(e.value))
	copy(value, e.value)
	return value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	a.mu.Lock()
	a.entries[key] = entry{
		value:     stored,
		expiresAt: time.Now().Add(time.Duration(expirationSeconds) * time.Second),
	}
	a.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	e, ok := a.entries[key]
	if !ok {
		return false, nil
	}
	return !e.expired(time.Now()), nil
}

// Stats returns a snapshot of cache effectiveness counters
func (a *MemoryAdapter) Stats() MemoryStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := a.stats
	stats.TotalKeys = len(a.entries)
	return stats
}

// Close stops the background sweep
func (a *MemoryAdapter) Close() {
	close(a.stop)
}

func (a *MemoryAdapter) sweepLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.sweep()
		}
	}
}

func (a *MemoryAdapter) sweep() {
	now := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	for key, e := range a.entries {
		if e.expired(now) {
			delete(a.entries, key)
			a.stats.Evictions++
		}
	}
}
