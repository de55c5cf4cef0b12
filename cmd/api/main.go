package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/cache"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/database"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/search"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/api/handlers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/api/middleware"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/api/routes"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/application/services"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/openai"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/redis"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/typesense"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
	queryadapters "github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/query/adapters"
	queryservices "github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/query/services"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/secrets"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/utils"
)

func main() {
	resolved, err := secrets.ResolveFileEnv()
	if err != nil {
		stdlog.Fatalf("Failed to resolve file-based secrets: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment, os.Getenv("LOG_LEVEL"))
	logger := observability.GetLogger()

	if len(resolved) > 0 {
		logger.Info().Strs("variables", resolved).Msg("Resolved file-based secrets")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdownOTEL, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownOTEL(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		// Keep serving; the in-process cache takes over below
		logger.Warn().Err(err).Msg("Failed to initialize Redis client")
	} else {
		defer redisClient.Close()
	}

	// Typesense backs semantic relevance and is optional
	var typesenseClient *typesense.Client
	if cfg.Typesense.URL != "" {
		typesenseClient, err = typesense.NewClient(&cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Typesense client")
			typesenseClient = nil
		}
	}

	recipeAdapter := database.NewRecipeAdapter(pgClient)
	ingredientAdapter := database.NewIngredientAdapter(pgClient)
	analyticsAdapter := database.NewSearchAnalyticsAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis cache provider initialized")
	} else {
		cacheProvider = cache.NewMemoryAdapter()
		logger.Warn().Msg("Using in-process cache, Redis unavailable")
	}

	var relevanceProvider providers.RelevanceProvider
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		relevanceProvider = adapter
	}

	// Resolve feature flags against what is actually configured
	flags := services.NewFeatureFlags(relevanceProvider != nil)
	if !flags.SemanticRankingEnabled() {
		relevanceProvider = nil
		logger.Info().Msg("Semantic ranking disabled")
	}

	var substitutionProvider providers.SubstitutionProvider
	if !flags.AISubstitutionsEnabled() {
		logger.Info().Msg("AI substitutions disabled")
	} else if cfg.OpenAI.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set; AI substitutions disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			substitutionProvider = openaiClient
		}
	}

	// Build the normalizer from the seed alias table merged with aliases
	// stored alongside ingredients; the database wins on conflicts
	aliasConfig, err := utils.LoadAliasConfig(resolvePath(cfg.Paths.IngredientAliases))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load ingredient aliases")
	}
	aliases := aliasConfig.Aliases
	if dbAliases, err := ingredientAdapter.AliasMap(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to load aliases from database")
	} else {
		for alias, canonical := range dbAliases {
			aliases[alias] = canonical
		}
	}
	normalizer := utils.NewIngredientNormalizer(aliases)

	suggestionIndex := search.NewSuggestionIndex(ingredientAdapter)
	if err := suggestionIndex.Rebuild(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to build suggestion index")
	} else {
		logger.Info().Int("entries", suggestionIndex.Size()).Msg("Suggestion index built")
	}

	matchService := services.NewRecipeMatchService()
	rankingService := services.NewRecipeRankingService()
	suggestionService := services.NewIngredientSuggestionService(suggestionIndex, cacheProvider, metrics)

	substitutionService, err := services.NewSubstitutionService(
		resolvePath(cfg.Paths.SubstitutionRules),
		resolvePath(cfg.Paths.DietaryRestrictions),
		normalizer,
		substitutionProvider,
		cacheProvider,
		metrics,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize substitution service")
	}
	logger.Info().Int("rules", substitutionService.RuleCount()).Msg("Substitution service initialized")

	var analyticsService *services.SearchAnalyticsService
	if flags.AnalyticsEnabled() {
		analyticsService = services.NewSearchAnalyticsService(analyticsAdapter)
	} else {
		logger.Info().Msg("Search analytics disabled")
	}

	searchService := services.NewRecipeSearchService(
		recipeAdapter,
		normalizer,
		matchService,
		rankingService,
		relevanceProvider,
		substitutionService,
		analyticsService,
		cacheProvider,
		metrics,
	)

	// Read-side query service
	queryCache := queryadapters.NewQueryCacheAdapter(cacheProvider)
	ingredientQueryService := queryservices.NewIngredientQueryService(ingredientAdapter, queryCache)

	// A typed nil would make the analytics interface non-nil inside the
	// handler, so pass a literal nil when the service is off
	var searchHandler *handlers.RecipeSearchHandler
	if analyticsService != nil {
		searchHandler = handlers.NewRecipeSearchHandler(searchService, analyticsService)
	} else {
		searchHandler = handlers.NewRecipeSearchHandler(searchService, nil)
	}

	ingredientHandler := handlers.NewIngredientHandler(suggestionService, ingredientQueryService)
	substitutionHandler := handlers.NewSubstitutionHandler(substitutionService, cacheProvider)
	cacheMiddleware := middleware.NewCacheMiddleware(cacheProvider)

	router := routes.NewRouter(
		searchHandler,
		ingredientHandler,
		substitutionHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	// Traffic has stopped; flush the analytics backlog
	if analyticsService != nil {
		analyticsService.Close()
	}

	logger.Info().Msg("Server stopped")
}

// resolvePath tries the configured location first, then the backend/
// prefix used when running from the repository root
func resolvePath(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if _, err := os.Stat("backend/" + path); err == nil {
		return "backend/" + path
	}
	return path
}
