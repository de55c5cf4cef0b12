package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
)

const (
	// substitutionRateLimit caps resolutions per client IP per window; the
	// generative fallback behind this endpoint is metered per call
	substitutionRateLimit  = 30
	substitutionRateWindow = time.Minute

	// maxBatchIngredients bounds one batch request
	maxBatchIngredients = 20
)

// SubstitutionResolver defines the resolution operations used by the handler
type SubstitutionResolver interface {
	Resolve(ctx context.Context, ingredientName string, sctx *entities.SubstitutionContext) (*entities.SubstitutionResult, error)
	ResolveBatch(ctx context.Context, ingredientNames []string, sctx *entities.SubstitutionContext) (map[string]*entities.SubstitutionResult, error)
}

// SubstitutionHandler handles substitution HTTP requests. Requests are rate
// limited per client IP, shared across instances when a cache is configured.
type SubstitutionHandler struct {
	resolver SubstitutionResolver
	cache    providers.CacheProvider
	local    *localRateLimiter
}

// NewSubstitutionHandler creates a new substitution handler
func NewSubstitutionHandler(resolver SubstitutionResolver, cache providers.CacheProvider) *SubstitutionHandler {
	return &SubstitutionHandler{
		resolver: resolver,
		cache:    cache,
		local:    newLocalRateLimiter(),
	}
}

type substitutionRequest struct {
	Ingredient string                        `json:"ingredient"`
	Context    *entities.SubstitutionContext `json:"context,omitempty"`
}

type substitutionBatchRequest struct {
	Ingredients []string                      `json:"ingredients"`
	Context     *entities.SubstitutionContext `json:"context,omitempty"`
}

// ResolveSubstitution handles POST /api/substitutions
func (h *SubstitutionHandler) ResolveSubstitution(w http.ResponseWriter, r *http.Request) {
	if !h.checkRateLimit(w, r) {
		return
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var payload substitutionRequest
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	result, err := h.resolver.Resolve(r.Context(), payload.Ingredient, payload.Context)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ResolveSubstitutionBatch handles POST /api/substitutions/batch
func (h *SubstitutionHandler) ResolveSubstitutionBatch(w http.ResponseWriter, r *http.Request) {
	if !h.checkRateLimit(w, r) {
		return
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var payload substitutionBatchRequest
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	if len(payload.Ingredients) == 0 {
		respondWithError(w, http.StatusBadRequest, "at least one ingredient is required")
		return
	}
	if len(payload.Ingredients) > maxBatchIngredients {
		respondWithError(w, http.StatusBadRequest, "too many ingredients in one batch")
		return
	}

	results, err := h.resolver.ResolveBatch(r.Context(), payload.Ingredients, payload.Context)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

func (h *SubstitutionHandler) checkRateLimit(w http.ResponseWriter, r *http.Request) bool {
	key := "subst:rate:" + clientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), key)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return false
	}
	return true
}

func (h *SubstitutionHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.local.allow(key, substitutionRateLimit, substitutionRateWindow)
	}

	state := rateLimitState{}
	if data, err := h.cache.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &state)
	}

	if state.Count >= substitutionRateLimit {
		return false, substitutionRateWindow
	}

	state.Count++
	data, _ := json.Marshal(state)
	_ = h.cache.Set(ctx, key, data, int(substitutionRateWindow.Seconds()))
	return true, substitutionRateWindow
}

type rateLimitState struct {
	Count int `json:"count"`
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}
