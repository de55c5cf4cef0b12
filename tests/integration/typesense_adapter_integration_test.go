//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/search"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/typesense"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
)

func TestTypesenseAdapterIntegration(t *testing.T) {
	if os.Getenv("TEST_TYPESENSE_URL") == "" {
		t.Skip("Skipping integration test: TEST_TYPESENSE_URL not set")
	}

	cfg := &config.TypesenseConfig{
		URL:    os.Getenv("TEST_TYPESENSE_URL"),
		APIKey: getEnv("TEST_TYPESENSE_API_KEY", "xyz"),
	}

	client, err := typesense.NewClient(cfg)
	require.NoError(t, err)

	adapter := search.NewTypesenseAdapter(client)
	ctx := context.Background()

	// 1. Init schema
	err = adapter.InitSchema(ctx)
	require.NoError(t, err)

	// 2. Index two recipes with disjoint ingredient text
	friedRice := &entities.Recipe{
		ID:             "test-rec-ts-1",
		Name:           "Garlic Fried Rice",
		Description:    "Rice fried with garlic and egg",
		IngredientKeys: []string{"rice", "garlic", "egg"},
		Cuisine:        "chinese",
		Tags:           []string{"quick"},
		SystemRating:   88,
		CreatedAt:      time.Now(),
	}
	brownies := &entities.Recipe{
		ID:             "test-rec-ts-2",
		Name:           "Chocolate Brownies",
		Description:    "Dense chocolate brownies",
		IngredientKeys: []string{"chocolate", "butter", "sugar"},
		Cuisine:        "american",
		Tags:           []string{"dessert"},
		SystemRating:   94,
		CreatedAt:      time.Now(),
	}

	require.NoError(t, adapter.IndexRecipe(ctx, friedRice))
	require.NoError(t, adapter.IndexRecipe(ctx, brownies))

	// Allow Typesense to index
	time.Sleep(1 * time.Second)

	// 3. Score by ingredient terms; the matching recipe takes the top
	// normalized score
	scores, err := adapter.ScoreRecipes(ctx, []string{"garlic", "rice"}, 10)
	require.NoError(t, err)
	require.Contains(t, scores, friedRice.ID)
	assert.InDelta(t, 100.0, scores[friedRice.ID], 0.01)
	if brownieScore, ok := scores[brownies.ID]; ok {
		assert.Less(t, brownieScore, scores[friedRice.ID])
	}

	// 4. Empty terms short-circuit without a network call
	scores, err = adapter.ScoreRecipes(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, scores)

	// 5. Delete indexed documents
	require.NoError(t, adapter.DeleteRecipe(ctx, friedRice.ID))
	require.NoError(t, adapter.DeleteRecipe(ctx, brownies.ID))
}
