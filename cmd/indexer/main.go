package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/database"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/search"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/typesense"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	observability.InitLogger("pantry-indexer", cfg.Environment, os.Getenv("LOG_LEVEL"))
	logger := observability.ComponentLogger("indexer")

	interval, err := resolveInterval(intervalFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid reindex interval")
	}
	if cfg.Typesense.URL == "" {
		logger.Fatal().Msg("TYPESENSE_URL is required for the indexer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset, logger); err != nil {
			logger.Error().Err(err).Msg("Reindex failed")
		}
		if interval <= 0 {
			break
		}

		// Only the first run of a repeating indexer honors -reset
		reset = false
		logger.Info().Dur("next_run_in", interval).Msg("Reindex complete")

		select {
		case <-ctx.Done():
			logger.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

// resolveInterval prefers the flag, then REINDEX_INTERVAL. Empty means run
// once and exit.
func resolveInterval(flagValue string) (time.Duration, error) {
	raw := strings.TrimSpace(flagValue)
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}
	if raw == "" {
		return 0, nil
	}

	interval, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if interval <= 0 {
		return 0, fmt.Errorf("interval %q must be greater than zero", raw)
	}
	return interval, nil
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool, logger zerolog.Logger) error {
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	recipeRepo := database.NewRecipeAdapter(pgClient)
	ingredientRepo := database.NewIngredientAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}
	adapter := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		logger.Info().Msg("Reset requested, deleting recipes collection")
		if _, err := tsClient.Client().Collection(typesense.RecipesCollection).Delete(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete collection")
		}
	}

	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	recipes, err := recipeRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("recipes", len(recipes)).Msg("Indexing recipes")

	indexed := 0
	for _, recipe := range recipes {
		if recipe == nil {
			continue
		}
		if err := adapter.IndexRecipe(ctx, recipe); err != nil {
			logger.Warn().Err(err).Str("recipe_id", recipe.ID).Msg("Failed to index recipe")
			continue
		}
		indexed++
	}
	logger.Info().Int("indexed", indexed).Int("total", len(recipes)).Msg("Recipes indexed into Typesense")

	// Rebuild the suggestion index once as a dry run so a broken ingredient
	// table fails here rather than at API startup
	suggestionIndex := search.NewSuggestionIndex(ingredientRepo)
	if err := suggestionIndex.Rebuild(ctx); err != nil {
		logger.Warn().Err(err).Msg("Suggestion index rebuild failed")
	} else {
		logger.Info().Int("entries", suggestionIndex.Size()).Msg("Suggestion index verified")
	}

	return nil
}
