package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/cache"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/database"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/search"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/application/services"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/evaluation"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/typesense"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/utils"
)

func main() {
	var minRecall float64
	var minMRR float64
	var minHitRate float64
	var maxFailures int

	flag.Float64Var(&minRecall, "min-recall", 0.5, "Guardrail floor for average recall@10 (0 disables)")
	flag.Float64Var(&minMRR, "min-mrr", 0, "Guardrail floor for average MRR@10 (0 disables)")
	flag.Float64Var(&minHitRate, "min-hit-rate", 0, "Guardrail floor for fraction of scenarios with results (0 disables)")
	flag.IntVar(&maxFailures, "max-failures", 0, "Scenarios allowed to error before the run fails")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	// Setup repos
	recipeRepo := database.NewRecipeAdapter(pgClient)
	ingredientRepo := database.NewIngredientAdapter(pgClient)

	// Relevance is optional here; scenarios in semantic mode fall back to the
	// base weighting when no backend is configured
	var relevanceProvider providers.RelevanceProvider
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Printf("Warning: Typesense unavailable, semantic scenarios fall back: %v", err)
		} else {
			relevanceProvider = search.NewTypesenseAdapter(tsClient)
		}
	}

	aliasConfig, err := utils.LoadAliasConfig(resolvePath(cfg.Paths.IngredientAliases))
	if err != nil {
		log.Fatalf("Failed to load ingredient aliases: %v", err)
	}
	aliases := aliasConfig.Aliases
	if dbAliases, err := ingredientRepo.AliasMap(ctx); err != nil {
		log.Printf("Warning: Failed to load aliases from database: %v", err)
	} else {
		for alias, canonical := range dbAliases {
			aliases[alias] = canonical
		}
	}
	normalizer := utils.NewIngredientNormalizer(aliases)

	// Setup the search service; substitution enrichment and analytics are out
	// of scope for scoring, and caching is off so every scenario exercises the
	// live pipeline
	searchService := services.NewRecipeSearchService(
		recipeRepo,
		normalizer,
		services.NewRecipeMatchService(),
		services.NewRecipeRankingService(),
		relevanceProvider,
		nil,
		nil,
		cache.NewNoopAdapter(),
		nil,
	)

	// Load golden scenarios
	scenarios, err := evaluation.LoadGoldenScenarios(resolvePath(cfg.Paths.GoldenScenarios))
	if err != nil {
		log.Fatalf("Failed to load golden scenarios: %v", err)
	}
	if err := evaluation.ValidateGoldenScenarios(scenarios); err != nil {
		log.Fatalf("Invalid golden scenarios: %v", err)
	}

	runner := evaluation.NewRunner(searchService)
	summary, err := runner.Run(ctx, scenarios)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	// Output results as JSON
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{
		MinAvgRecallAt10: minRecall,
		MinAvgMRRAt10:    minMRR,
		MinHitRate:       minHitRate,
		MaxFailures:      maxFailures,
	})

	if violations := guardrails.Check(summary); len(violations) > 0 {
		for _, v := range violations {
			log.Printf("Guardrail breached: %s", v)
		}
		os.Exit(1)
	}
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
