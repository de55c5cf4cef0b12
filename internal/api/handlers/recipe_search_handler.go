package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// RecipeSearcher defines the search operations used by the handler
type RecipeSearcher interface {
	Search(ctx context.Context, userIngredientNames []string, opts entities.SearchOptions) (*entities.SearchResult, error)
}

// SearchAnalytics defines the analytics reads exposed by the handler
type SearchAnalytics interface {
	GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// RecipeSearchHandler handles recipe search HTTP requests
type RecipeSearchHandler struct {
	searcher  RecipeSearcher
	analytics SearchAnalytics
}

// NewRecipeSearchHandler creates a new recipe search handler. Analytics is
// optional.
func NewRecipeSearchHandler(searcher RecipeSearcher, analytics SearchAnalytics) *RecipeSearchHandler {
	return &RecipeSearchHandler{
		searcher:  searcher,
		analytics: analytics,
	}
}

type searchRequest struct {
	Ingredients []string `json:"ingredients"`
	entities.SearchOptions
}

// SearchRecipes handles POST /api/recipes/search
func (h *RecipeSearchHandler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var payload searchRequest
	if err := decoder.Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	result, err := h.searcher.Search(r.Context(), payload.Ingredients, payload.SearchOptions)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetZeroResultSearches handles GET /api/analytics/zero-result-searches
func (h *RecipeSearchHandler) GetZeroResultSearches(w http.ResponseWriter, r *http.Request) {
	if h.analytics == nil {
		respondWithError(w, http.StatusNotFound, "analytics is not enabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.analytics.GetZeroResultSearches(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searches": events,
		"count":    len(events),
	})
}
