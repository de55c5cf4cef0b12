package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	queryservices "github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/query/services"
)

// IngredientSuggester defines the typeahead operations used by the handler
type IngredientSuggester interface {
	Suggest(ctx context.Context, partial string, opts entities.SuggestOptions) ([]entities.IngredientSuggestion, error)
}

// IngredientQueries defines the read-side ingredient operations used by the
// handler
type IngredientQueries interface {
	GetByName(ctx context.Context, name string) (*entities.Ingredient, error)
	PopularIngredients(ctx context.Context, limit int) ([]*entities.Ingredient, error)
	IngredientsByCategory(ctx context.Context, category entities.IngredientCategory, limit int) ([]*entities.Ingredient, error)
	Categories(ctx context.Context) ([]queryservices.CategorySummary, error)
}

// IngredientHandler handles ingredient-related HTTP requests
type IngredientHandler struct {
	suggester IngredientSuggester
	queries   IngredientQueries
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(suggester IngredientSuggester, queries IngredientQueries) *IngredientHandler {
	return &IngredientHandler{
		suggester: suggester,
		queries:   queries,
	}
}

// SuggestIngredients handles GET /api/ingredients/suggest
func (h *IngredientHandler) SuggestIngredients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	opts := entities.SuggestOptions{
		Category:   entities.IngredientCategory(r.URL.Query().Get("category")),
		CommonOnly: r.URL.Query().Get("common_only") == "true",
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		opts.Limit = parsed
	}

	suggestions, err := h.suggester.Suggest(r.Context(), query, opts)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// GetPopularIngredients handles GET /api/ingredients/popular
func (h *IngredientHandler) GetPopularIngredients(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	ingredients, err := h.queries.PopularIngredients(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ingredients": ingredients,
		"count":       len(ingredients),
	})
}

// GetCategories handles GET /api/ingredients/categories
func (h *IngredientHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.Categories(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// GetIngredientsByCategory handles GET /api/ingredients/categories/{category}
func (h *IngredientHandler) GetIngredientsByCategory(w http.ResponseWriter, r *http.Request) {
	category := entities.IngredientCategory(r.PathValue("category"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	ingredients, err := h.queries.IngredientsByCategory(r.Context(), category, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"category":    category,
		"ingredients": ingredients,
		"count":       len(ingredients),
	})
}

// GetIngredient handles GET /api/ingredients/{name}
func (h *IngredientHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	ingredient, err := h.queries.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ingredient)
}
