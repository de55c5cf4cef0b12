package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey_Deterministic(t *testing.T) {
	type params struct {
		Ingredients []string `json:"ingredients"`
		Mode        string   `json:"mode"`
	}

	k1 := CacheKey(CachePrefixSearch, params{Ingredients: []string{"chicken", "rice"}, Mode: "any"})
	k2 := CacheKey(CachePrefixSearch, params{Ingredients: []string{"chicken", "rice"}, Mode: "any"})
	k3 := CacheKey(CachePrefixSearch, params{Ingredients: []string{"chicken", "rice"}, Mode: "all"})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "search:")
}

func TestCacheKey_PrefixSeparatesFamilies(t *testing.T) {
	type params struct {
		Q string `json:"q"`
	}

	search := CacheKey(CachePrefixSearch, params{Q: "chicken"})
	suggest := CacheKey(CachePrefixSuggestion, params{Q: "chicken"})

	assert.NotEqual(t, search, suggest)
}
