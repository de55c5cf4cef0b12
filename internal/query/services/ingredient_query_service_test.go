package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
)

type fakeIngredientReader struct {
	ingredients   map[string]*entities.Ingredient
	popular       []*entities.Ingredient
	byCategory    map[entities.IngredientCategory][]*entities.Ingredient
	counts        map[entities.IngredientCategory]int
	err           error
	popularCalls  int
	categoryCalls int
	getCalls      int
}

func (f *fakeIngredientReader) GetByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	if ing, ok := f.ingredients[name]; ok {
		return ing, nil
	}
	return nil, apperrors.NewNotFoundError("ingredient not found: " + name)
}

func (f *fakeIngredientReader) ListPopular(ctx context.Context, limit int) ([]*entities.Ingredient, error) {
	f.popularCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := f.popular
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeIngredientReader) ListByCategory(ctx context.Context, category entities.IngredientCategory, limit int) ([]*entities.Ingredient, error) {
	f.categoryCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := f.byCategory[category]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeIngredientReader) CategoryCounts(ctx context.Context) (map[entities.IngredientCategory]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

type fakeQueryCache struct {
	data map[string][]byte
}

func newFakeQueryCache() *fakeQueryCache {
	return &fakeQueryCache{data: make(map[string][]byte)}
}

func (f *fakeQueryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if val, ok := f.data[key]; ok {
		return val, nil
	}
	return nil, assert.AnError
}

func (f *fakeQueryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

// Test 1: PopularIngredients delegates to the repository
func TestIngredientQueryService_PopularIngredients(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{popular: []*entities.Ingredient{
		{ID: "i1", Name: "chicken", RecipeCount: 420},
		{ID: "i2", Name: "onion", RecipeCount: 390},
	}}
	service := NewIngredientQueryService(repo, newFakeQueryCache())

	// Act
	result, err := service.PopularIngredients(context.Background(), 10)

	// Assert
	assert.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "chicken", result[0].Name)
	assert.Equal(t, "onion", result[1].Name)
}

// Test 2: PopularIngredients serves repeats from cache
func TestIngredientQueryService_PopularIngredients_CacheHit(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{popular: []*entities.Ingredient{
		{ID: "i1", Name: "chicken", RecipeCount: 420},
	}}
	service := NewIngredientQueryService(repo, newFakeQueryCache())

	// Act
	_, err := service.PopularIngredients(context.Background(), 10)
	require.NoError(t, err)
	result, err := service.PopularIngredients(context.Background(), 10)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 1, repo.popularCalls)
}

// Test 3: PopularIngredients clamps the limit
func TestIngredientQueryService_PopularIngredients_ClampsLimit(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{}
	service := NewIngredientQueryService(repo, nil)

	// Act
	_, err := service.PopularIngredients(context.Background(), 0)
	require.NoError(t, err)
	_, err = service.PopularIngredients(context.Background(), 5000)

	// Assert
	assert.NoError(t, err)
}

// Test 4: Categories lists every category, zero counts included
func TestIngredientQueryService_Categories(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{counts: map[entities.IngredientCategory]int{
		entities.CategoryVegetables: 40,
		entities.CategoryProteins:   12,
	}}
	service := NewIngredientQueryService(repo, nil)

	// Act
	result, err := service.Categories(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result, len(entities.AllCategories()))

	byCategory := make(map[entities.IngredientCategory]int)
	for _, summary := range result {
		byCategory[summary.Category] = summary.Count
	}
	assert.Equal(t, 40, byCategory[entities.CategoryVegetables])
	assert.Equal(t, 12, byCategory[entities.CategoryProteins])
	assert.Equal(t, 0, byCategory[entities.CategoryBaking])
}

// Test 5: GetByName returns from cache
func TestIngredientQueryService_GetByName_CacheHit(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{}
	cache := newFakeQueryCache()
	cached, err := json.Marshal(&entities.Ingredient{ID: "i1", Name: "basil"})
	require.NoError(t, err)
	cache.data["ingredient:basil"] = cached

	service := NewIngredientQueryService(repo, cache)

	// Act
	result, err := service.GetByName(context.Background(), "Basil ")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "basil", result.Name)
	assert.Equal(t, 0, repo.getCalls)
}

// Test 6: GetByName falls back to the repository and caches the result
func TestIngredientQueryService_GetByName_RepoFallback(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{ingredients: map[string]*entities.Ingredient{
		"basil": {ID: "i1", Name: "basil"},
	}}
	cache := newFakeQueryCache()
	service := NewIngredientQueryService(repo, cache)

	// Act
	result, err := service.GetByName(context.Background(), "basil")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, cache.data, "ingredient:basil")
}

// Test 7: GetByName returns error when not found
func TestIngredientQueryService_GetByName_NotFound(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{}
	service := NewIngredientQueryService(repo, newFakeQueryCache())

	// Act
	result, err := service.GetByName(context.Background(), "unobtainium")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

// Test 8: IngredientsByCategory delegates to the repository
func TestIngredientQueryService_IngredientsByCategory(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{byCategory: map[entities.IngredientCategory][]*entities.Ingredient{
		entities.CategorySpices: {
			{ID: "i1", Name: "cumin"},
			{ID: "i2", Name: "paprika"},
		},
	}}
	service := NewIngredientQueryService(repo, newFakeQueryCache())

	// Act
	result, err := service.IngredientsByCategory(context.Background(), entities.CategorySpices, 10)

	// Assert
	assert.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "cumin", result[0].Name)
	assert.Equal(t, "paprika", result[1].Name)
}

// Test 9: IngredientsByCategory serves repeats from cache
func TestIngredientQueryService_IngredientsByCategory_CacheHit(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{byCategory: map[entities.IngredientCategory][]*entities.Ingredient{
		entities.CategoryBaking: {{ID: "i1", Name: "flour"}},
	}}
	service := NewIngredientQueryService(repo, newFakeQueryCache())

	// Act
	_, err := service.IngredientsByCategory(context.Background(), entities.CategoryBaking, 10)
	require.NoError(t, err)
	result, err := service.IngredientsByCategory(context.Background(), entities.CategoryBaking, 10)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 1, repo.categoryCalls)
}

// Test 10: IngredientsByCategory rejects unknown categories without touching
// the repository
func TestIngredientQueryService_IngredientsByCategory_UnknownCategory(t *testing.T) {
	// Arrange
	repo := &fakeIngredientReader{}
	service := NewIngredientQueryService(repo, nil)

	// Act
	result, err := service.IngredientsByCategory(context.Background(), "gadgets", 10)

	// Assert
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Equal(t, 0, repo.categoryCalls)
}
