package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/database"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
)

func main() {
	var commonThreshold int
	var countsOnly bool
	flag.IntVar(&commonThreshold, "common-threshold", 25, "Minimum recipe count for an ingredient to be flagged common")
	flag.BoolVar(&countsOnly, "counts-only", false, "Recompute recipe counts without touching common flags")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	observability.InitLogger("pantry-backfill", cfg.Environment, os.Getenv("LOG_LEVEL"))
	logger := observability.ComponentLogger("backfill")

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgClient.Close()

	statsAdapter := database.NewIngredientStatsAdapter(pgClient)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()

	logger.Info().Msg("Recomputing ingredient recipe counts")
	changed, err := statsAdapter.RecomputeRecipeCounts(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to recompute recipe counts")
	}
	logger.Info().Int64("changed", changed).Msg("Recipe counts updated")

	if !countsOnly {
		logger.Info().Int("threshold", commonThreshold).Msg("Recomputing common flags")
		flipped, err := statsAdapter.RecomputeCommonFlags(ctx, commonThreshold)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to recompute common flags")
		}
		logger.Info().Int64("flipped", flipped).Msg("Common flags updated")
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("Backfill complete")
}
