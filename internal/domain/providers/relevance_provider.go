package providers

import (
	"context"
)

// RelevanceProvider is the optional text/vector relevance feed consumed by
// the semantic ranking mode. Scores are normalized to 0-100 per recipe ID.
// When the provider is absent or fails, ranking falls back to the base
// weighted score; callers never propagate its errors.
type RelevanceProvider interface {
	ScoreRecipes(ctx context.Context, terms []string, limit int) (map[string]float64, error)
}
