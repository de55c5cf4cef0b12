package providers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cache key prefixes by result family, centralized so invalidation tooling
// can find them
const (
	CachePrefixSearch       = "search"
	CachePrefixSuggestion   = "suggest"
	CachePrefixSubstitution = "subst"
	CachePrefixPopular      = "popular"
	CachePrefixCategory     = "category"
	CachePrefixIngredient   = "ingredient"
)

// Cache TTLs in seconds per result family. Search results turn over fastest;
// ingredient popularity barely moves within an hour.
const (
	CacheTTLSearchSeconds       = 300
	CacheTTLSuggestionSeconds   = 1800
	CacheTTLSubstitutionSeconds = 1800
	CacheTTLPopularSeconds      = 3600
	CacheTTLCategorySeconds     = 3600
	CacheTTLIngredientSeconds   = 300
)

// CacheKey builds a deterministic cache key from a prefix and a parameter
// struct. Parameters are serialized to JSON and hashed, so any comparable
// snapshot of request options yields a stable key.
func CacheKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:invalid", prefix)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:])[:16])
}
