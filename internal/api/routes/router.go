package routes

import (
	"net/http"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/api/handlers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/api/middleware"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
)

// Router wires the HTTP handlers into one mux behind the middleware chain.
type Router struct {
	mux *http.ServeMux

	searchHandler       *handlers.RecipeSearchHandler
	ingredientHandler   *handlers.IngredientHandler
	substitutionHandler *handlers.SubstitutionHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

func NewRouter(
	searchHandler *handlers.RecipeSearchHandler,
	ingredientHandler *handlers.IngredientHandler,
	substitutionHandler *handlers.SubstitutionHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		searchHandler:       searchHandler,
		ingredientHandler:   ingredientHandler,
		substitutionHandler: substitutionHandler,
		cacheMiddleware:     cacheMiddleware,
		metrics:             metrics,
	}
}

// SetupRoutes registers every route and returns the wrapped handler.
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", handleHealth)

	r.mux.HandleFunc("POST /api/recipes/search", r.searchHandler.SearchRecipes)

	r.mux.HandleFunc("GET /api/ingredients/suggest", r.ingredientHandler.SuggestIngredients)
	r.mux.HandleFunc("GET /api/ingredients/popular", r.ingredientHandler.GetPopularIngredients)
	r.mux.HandleFunc("GET /api/ingredients/categories", r.ingredientHandler.GetCategories)
	r.mux.HandleFunc("GET /api/ingredients/categories/{category}", r.ingredientHandler.GetIngredientsByCategory)
	r.mux.HandleFunc("GET /api/ingredients/{name}", r.ingredientHandler.GetIngredient)

	r.mux.HandleFunc("POST /api/substitutions", r.substitutionHandler.ResolveSubstitution)
	r.mux.HandleFunc("POST /api/substitutions/batch", r.substitutionHandler.ResolveSubstitutionBatch)

	r.mux.HandleFunc("GET /api/analytics/zero-result-searches", r.searchHandler.GetZeroResultSearches)

	// Innermost wraps first. CORS stays outermost so cache HITs carry its
	// headers too.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)
	return handler
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
