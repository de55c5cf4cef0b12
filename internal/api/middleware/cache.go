package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
)

// RouteCachePolicy is the per-route response cache policy. Routes without a
// policy never enter the cache.
type RouteCachePolicy struct {
	TTLSeconds int
}

// CacheMiddleware serves repeated GET reads from the cache provider. Only
// routes with an explicit policy participate; the search POST has its own
// service-level cache and never passes through here.
type CacheMiddleware struct {
	cache    providers.CacheProvider
	policies map[string]RouteCachePolicy
	logger   zerolog.Logger
}

// NewCacheMiddleware creates the middleware with the read-route policies.
// Suggestions turn over with the ingredient corpus; popular and category
// listings barely move between backfills.
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		policies: map[string]RouteCachePolicy{
			"/api/ingredients/suggest":    {TTLSeconds: 180},
			"/api/ingredients/popular":    {TTLSeconds: 3600},
			"/api/ingredients/categories": {TTLSeconds: 3600},
		},
		logger: observability.ComponentLogger("httpcache"),
	}
}

func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		policy, cacheable := m.policyFor(r)
		if !cacheable {
			next.ServeHTTP(w, r)
			return
		}

		key := requestCacheKey(r)
		if body, err := m.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		capture := &captureWriter{ResponseWriter: w}
		next.ServeHTTP(capture, r)

		// Only 200s enter the cache, so errors stay cheap to retry
		if capture.status() != http.StatusOK || capture.buf.Len() == 0 {
			return
		}
		if err := m.cache.Set(r.Context(), key, capture.buf.Bytes(), policy.TTLSeconds); err != nil {
			m.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to store response in cache")
		}
	})
}

// policyFor matches the route table by exact path, then on a slash boundary
// so parameterized subpaths inherit their parent's policy.
func (m *CacheMiddleware) policyFor(r *http.Request) (RouteCachePolicy, bool) {
	if r.Method != http.MethodGet || m.cache == nil {
		return RouteCachePolicy{}, false
	}
	if policy, ok := m.policies[r.URL.Path]; ok {
		return policy, true
	}
	for prefix, policy := range m.policies {
		if strings.HasPrefix(r.URL.Path, prefix+"/") {
			return policy, true
		}
	}
	return RouteCachePolicy{}, false
}

// requestCacheKey digests method, path, and the query with its parameters
// sorted, so parameter order never splits the cache.
func requestCacheKey(r *http.Request) string {
	var b strings.Builder
	b.WriteString(r.Method)
	b.WriteByte(' ')
	b.WriteString(r.URL.Path)

	params := r.URL.Query()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range params[name] {
			b.WriteByte('&')
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(value)
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "httpcache:" + hex.EncodeToString(sum[:])
}

// captureWriter tees the response body so a 200 can be stored after it has
// been sent to the client.
type captureWriter struct {
	http.ResponseWriter
	buf        bytes.Buffer
	statusCode int
}

func (c *captureWriter) WriteHeader(statusCode int) {
	if c.statusCode != 0 {
		return
	}
	c.statusCode = statusCode
	c.ResponseWriter.WriteHeader(statusCode)
}

func (c *captureWriter) Write(p []byte) (int, error) {
	if c.statusCode == 0 {
		c.WriteHeader(http.StatusOK)
	}
	c.buf.Write(p)
	return c.ResponseWriter.Write(p)
}

func (c *captureWriter) status() int {
	if c.statusCode == 0 {
		return http.StatusOK
	}
	return c.statusCode
}
