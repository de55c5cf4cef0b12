package services

import (
	"math"
	"sort"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// MatchedRecipe pairs a qualifying recipe with its match statistics
type MatchedRecipe struct {
	Recipe *entities.Recipe
	Stats  entities.MatchStats
}

// RecipeMatchService computes ingredient-overlap statistics between a pantry
// and recipe required sets. It is pure and stateless; safe for unbounded
// concurrent use.
type RecipeMatchService struct{}

// NewRecipeMatchService creates a new match service
func NewRecipeMatchService() *RecipeMatchService {
	return &RecipeMatchService{}
}

// Match evaluates one recipe's required set against the pantry keys and
// reports whether the recipe qualifies under the given mode. Recipes with an
// empty required set never qualify.
func (s *RecipeMatchService) Match(pantryKeys []string, required []string, mode entities.MatchMode) (entities.MatchStats, bool) {
	return s.matchSet(toKeySet(pantryKeys), required, mode)
}

// MatchCandidates evaluates every candidate and keeps the qualifying ones.
// minMatchPercentage filters after the match math, never inside it, so the
// reported percentage is the same across thresholds.
func (s *RecipeMatchService) MatchCandidates(pantryKeys []string, candidates []*entities.Recipe, mode entities.MatchMode, minMatchPercentage int) []MatchedRecipe {
	pantry := toKeySet(pantryKeys)

	matched := make([]MatchedRecipe, 0, len(candidates))
	for _, recipe := range candidates {
		stats, ok := s.matchSet(pantry, recipe.IngredientKeys, mode)
		if !ok {
			continue
		}
		if stats.MatchPercentage < minMatchPercentage {
			continue
		}
		matched = append(matched, MatchedRecipe{Recipe: recipe, Stats: stats})
	}
	return matched
}

func (s *RecipeMatchService) matchSet(pantry map[string]struct{}, required []string, mode entities.MatchMode) (entities.MatchStats, bool) {
	stats := entities.MatchStats{}

	seen := make(map[string]struct{}, len(required))
	for _, key := range required {
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		stats.TotalCount++
		if _, ok := pantry[key]; ok {
			stats.MatchedCount++
			stats.MatchedNames = append(stats.MatchedNames, key)
		}
	}

	// A recipe without required ingredients matches nothing meaningfully
	if stats.TotalCount == 0 {
		return stats, false
	}

	sort.Strings(stats.MatchedNames)
	stats.MatchPercentage = int(math.Round(float64(stats.MatchedCount) / float64(stats.TotalCount) * 100))

	switch mode {
	case entities.MatchAll:
		return stats, stats.MatchedCount == stats.TotalCount
	case entities.MatchExact:
		return stats, stats.MatchedCount == stats.TotalCount && len(pantry) == stats.TotalCount
	default:
		return stats, stats.MatchedCount > 0
	}
}

func toKeySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}
