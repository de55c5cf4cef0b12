package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/api/handlers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	queryservices "github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/query/services"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
)

type stubSuggester struct {
	suggestions []entities.IngredientSuggestion
	err         error
	lastPartial string
	lastOptions entities.SuggestOptions
}

func (s *stubSuggester) Suggest(ctx context.Context, partial string, opts entities.SuggestOptions) ([]entities.IngredientSuggestion, error) {
	s.lastPartial = partial
	s.lastOptions = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

type stubQueries struct {
	popular      []*entities.Ingredient
	byCategory   []*entities.Ingredient
	byName       *entities.Ingredient
	categories   []queryservices.CategorySummary
	err          error
	lastLimit    int
	lastCategory entities.IngredientCategory
	lastName     string
}

func (s *stubQueries) GetByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	s.lastName = name
	if s.err != nil {
		return nil, s.err
	}
	return s.byName, nil
}

func (s *stubQueries) PopularIngredients(ctx context.Context, limit int) ([]*entities.Ingredient, error) {
	s.lastLimit = limit
	return s.popular, nil
}

func (s *stubQueries) IngredientsByCategory(ctx context.Context, category entities.IngredientCategory, limit int) ([]*entities.Ingredient, error) {
	s.lastCategory = category
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.byCategory, nil
}

func (s *stubQueries) Categories(ctx context.Context) ([]queryservices.CategorySummary, error) {
	return s.categories, nil
}

func TestIngredientHandler_SuggestIngredients(t *testing.T) {
	suggester := &stubSuggester{suggestions: []entities.IngredientSuggestion{
		{Name: "chicken", DisplayName: "Chicken", IsCommon: true},
		{Name: "chickpea", DisplayName: "Chickpea"},
	}}
	handler := handlers.NewIngredientHandler(suggester, &stubQueries{})

	req := httptest.NewRequest("GET", "/api/ingredients/suggest?q=chic&limit=5&common_only=true", nil)
	w := httptest.NewRecorder()

	handler.SuggestIngredients(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chic", suggester.lastPartial)
	assert.Equal(t, 5, suggester.lastOptions.Limit)
	assert.True(t, suggester.lastOptions.CommonOnly)

	var response struct {
		Suggestions []entities.IngredientSuggestion `json:"suggestions"`
		Count       int                             `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "chicken", response.Suggestions[0].Name)
}

func TestIngredientHandler_SuggestIngredients_BadLimit(t *testing.T) {
	handler := handlers.NewIngredientHandler(&stubSuggester{}, &stubQueries{})

	req := httptest.NewRequest("GET", "/api/ingredients/suggest?q=chic&limit=five", nil)
	w := httptest.NewRecorder()

	handler.SuggestIngredients(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientHandler_SuggestIngredients_UnknownCategory(t *testing.T) {
	suggester := &stubSuggester{err: apperrors.NewValidationErrorf("unknown ingredient category %q", "weird")}
	handler := handlers.NewIngredientHandler(suggester, &stubQueries{})

	req := httptest.NewRequest("GET", "/api/ingredients/suggest?q=chic&category=weird", nil)
	w := httptest.NewRecorder()

	handler.SuggestIngredients(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientHandler_GetPopularIngredients(t *testing.T) {
	queries := &stubQueries{popular: []*entities.Ingredient{
		{ID: "i1", Name: "chicken", RecipeCount: 420},
	}}
	handler := handlers.NewIngredientHandler(&stubSuggester{}, queries)

	req := httptest.NewRequest("GET", "/api/ingredients/popular?limit=10", nil)
	w := httptest.NewRecorder()

	handler.GetPopularIngredients(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, queries.lastLimit)

	var response struct {
		Ingredients []*entities.Ingredient `json:"ingredients"`
		Count       int                    `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
}

func TestIngredientHandler_GetPopularIngredients_BadLimit(t *testing.T) {
	handler := handlers.NewIngredientHandler(&stubSuggester{}, &stubQueries{})

	req := httptest.NewRequest("GET", "/api/ingredients/popular?limit=ten", nil)
	w := httptest.NewRecorder()

	handler.GetPopularIngredients(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientHandler_GetCategories(t *testing.T) {
	queries := &stubQueries{categories: []queryservices.CategorySummary{
		{Category: entities.CategoryVegetables, Count: 40},
		{Category: entities.CategoryBaking, Count: 0},
	}}
	handler := handlers.NewIngredientHandler(&stubSuggester{}, queries)

	req := httptest.NewRequest("GET", "/api/ingredients/categories", nil)
	w := httptest.NewRecorder()

	handler.GetCategories(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Categories []queryservices.CategorySummary `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Categories, 2)
}

func TestIngredientHandler_GetIngredientsByCategory(t *testing.T) {
	queries := &stubQueries{byCategory: []*entities.Ingredient{
		{ID: "i1", Name: "cumin"},
		{ID: "i2", Name: "paprika"},
	}}
	handler := handlers.NewIngredientHandler(&stubSuggester{}, queries)

	req := httptest.NewRequest("GET", "/api/ingredients/categories/spices?limit=25", nil)
	req.SetPathValue("category", "spices")
	w := httptest.NewRecorder()

	handler.GetIngredientsByCategory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.CategorySpices, queries.lastCategory)
	assert.Equal(t, 25, queries.lastLimit)

	var response struct {
		Category    string                 `json:"category"`
		Ingredients []*entities.Ingredient `json:"ingredients"`
		Count       int                    `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "spices", response.Category)
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "cumin", response.Ingredients[0].Name)
}

func TestIngredientHandler_GetIngredientsByCategory_Unknown(t *testing.T) {
	queries := &stubQueries{err: apperrors.NewValidationErrorf("unknown ingredient category %q", "gadgets")}
	handler := handlers.NewIngredientHandler(&stubSuggester{}, queries)

	req := httptest.NewRequest("GET", "/api/ingredients/categories/gadgets", nil)
	req.SetPathValue("category", "gadgets")
	w := httptest.NewRecorder()

	handler.GetIngredientsByCategory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientHandler_GetIngredientsByCategory_BadLimit(t *testing.T) {
	handler := handlers.NewIngredientHandler(&stubSuggester{}, &stubQueries{})

	req := httptest.NewRequest("GET", "/api/ingredients/categories/spices?limit=lots", nil)
	req.SetPathValue("category", "spices")
	w := httptest.NewRecorder()

	handler.GetIngredientsByCategory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientHandler_GetIngredient(t *testing.T) {
	queries := &stubQueries{byName: &entities.Ingredient{
		ID: "i1", Name: "chicken", DisplayName: "Chicken", RecipeCount: 420,
	}}
	handler := handlers.NewIngredientHandler(&stubSuggester{}, queries)

	req := httptest.NewRequest("GET", "/api/ingredients/chicken", nil)
	req.SetPathValue("name", "chicken")
	w := httptest.NewRecorder()

	handler.GetIngredient(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chicken", queries.lastName)

	var ingredient entities.Ingredient
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ingredient))
	assert.Equal(t, "i1", ingredient.ID)
	assert.Equal(t, "Chicken", ingredient.DisplayName)
}

func TestIngredientHandler_GetIngredient_NotFound(t *testing.T) {
	queries := &stubQueries{err: apperrors.NewNotFoundError(`ingredient "unobtainium" not found`)}
	handler := handlers.NewIngredientHandler(&stubSuggester{}, queries)

	req := httptest.NewRequest("GET", "/api/ingredients/unobtainium", nil)
	req.SetPathValue("name", "unobtainium")
	w := httptest.NewRecorder()

	handler.GetIngredient(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
