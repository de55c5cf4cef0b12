package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/utils"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// IngredientReader defines the persistence reads this service needs
type IngredientReader interface {
	GetByName(ctx context.Context, name string) (*entities.Ingredient, error)
	ListPopular(ctx context.Context, limit int) ([]*entities.Ingredient, error)
	ListByCategory(ctx context.Context, category entities.IngredientCategory, limit int) ([]*entities.Ingredient, error)
	CategoryCounts(ctx context.Context) (map[entities.IngredientCategory]int, error)
}

// QueryCacheProvider defines the interface for caching in query services
type QueryCacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CategorySummary pairs a browsable category with its ingredient count
type CategorySummary struct {
	Category entities.IngredientCategory `json:"category"`
	Count    int                         `json:"count"`
}

// IngredientQueryService handles read-only ingredient operations
type IngredientQueryService struct {
	repo  IngredientReader
	cache QueryCacheProvider
}

// NewIngredientQueryService creates a new ingredient query service
func NewIngredientQueryService(repo IngredientReader, cache QueryCacheProvider) *IngredientQueryService {
	return &IngredientQueryService{
		repo:  repo,
		cache: cache,
	}
}

// PopularIngredients lists ingredients by recipe count descending, with
// caching. The limit clamps to the maximum.
func (s *IngredientQueryService) PopularIngredients(ctx context.Context, limit int) ([]*entities.Ingredient, error) {
	limit = clampListLimit(limit)

	cacheKey := fmt.Sprintf("%s:%d", providers.CachePrefixPopular, limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var ingredients []*entities.Ingredient
			if err := json.Unmarshal(cached, &ingredients); err == nil {
				return ingredients, nil
			}
		}
	}

	ingredients, err := s.repo.ListPopular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular ingredients: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(ingredients); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, time.Duration(providers.CacheTTLPopularSeconds)*time.Second)
		}
	}

	return ingredients, nil
}

// Categories returns every browsable category with its ingredient count.
// Categories with no ingredients still appear, with a zero count.
func (s *IngredientQueryService) Categories(ctx context.Context) ([]CategorySummary, error) {
	counts, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	summaries := make([]CategorySummary, 0, len(entities.AllCategories()))
	for _, category := range entities.AllCategories() {
		summaries = append(summaries, CategorySummary{
			Category: category,
			Count:    counts[category],
		})
	}
	return summaries, nil
}

// IngredientsByCategory lists the ingredients of one category alphabetically,
// with caching. The limit clamps like the popular listing.
func (s *IngredientQueryService) IngredientsByCategory(ctx context.Context, category entities.IngredientCategory, limit int) ([]*entities.Ingredient, error) {
	if !category.IsValid() {
		return nil, apperrors.NewValidationErrorf("unknown ingredient category %q", category)
	}
	limit = clampListLimit(limit)

	cacheKey := fmt.Sprintf("%s:%s:%d", providers.CachePrefixCategory, category, limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var ingredients []*entities.Ingredient
			if err := json.Unmarshal(cached, &ingredients); err == nil {
				return ingredients, nil
			}
		}
	}

	ingredients, err := s.repo.ListByCategory(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ingredients: %w", category, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(ingredients); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, time.Duration(providers.CacheTTLCategorySeconds)*time.Second)
		}
	}

	return ingredients, nil
}

// GetByName retrieves an ingredient by name, using cache when available
func (s *IngredientQueryService) GetByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	key := utils.CleanName(name)
	cacheKey := providers.CachePrefixIngredient + ":" + key

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var ingredient entities.Ingredient
			if err := json.Unmarshal(cached, &ingredient); err == nil {
				return &ingredient, nil
			}
		}
	}

	ingredient, err := s.repo.GetByName(ctx, key)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(ingredient); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, time.Duration(providers.CacheTTLIngredientSeconds)*time.Second)
		}
	}

	return ingredient, nil
}

func clampListLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
