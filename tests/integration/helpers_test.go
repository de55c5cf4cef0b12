//go:build integration

package integration

import (
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/redis"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

// Local containers answer on the defaults; CI points TEST_* elsewhere.
func newTestPostgresClient(t *testing.T) *postgres.Client {
	t.Helper()

	client, err := postgres.NewClient(&config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "pantry_discovery_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	})
	require.NoError(t, err, "Failed to create postgres client")
	return client
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client, err := redis.NewClient(&config.RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	})
	require.NoError(t, err, "Failed to create redis client")
	return client
}

// applySchema runs the initial schema; statements are idempotent so repeated
// suite setups are safe.
func applySchema(t *testing.T, db *sql.DB) {
	t.Helper()

	schema, err := os.ReadFile("../../migrations/001_initial_schema.sql")
	require.NoError(t, err, "Failed to read migration file")

	_, err = db.Exec(string(schema))
	require.NoError(t, err, "Failed to apply schema")
}

// truncateAll clears test data in dependency order.
func truncateAll(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range []string{"recipe_ingredients", "search_events", "recipes", "ingredients"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to clean up "+table)
	}
}

func insertIngredient(t *testing.T, db *sql.DB, id, name string, common bool, aliases ...string) {
	t.Helper()

	if aliases == nil {
		aliases = []string{}
	}
	_, err := db.Exec(`
		INSERT INTO ingredients (id, name, display_name, category, is_common, aliases, recipe_count, created_at, updated_at)
		VALUES ($1, $2, $3, 'other', $4, $5, 0, NOW(), NOW())`,
		id, name, name, common, pq.Array(aliases),
	)
	require.NoError(t, err, "Failed to insert ingredient "+name)
}

func insertRecipe(t *testing.T, db *sql.DB, id, name string, rating float64, cuisine, difficulty string, tags ...string) {
	t.Helper()

	if tags == nil {
		tags = []string{}
	}
	_, err := db.Exec(`
		INSERT INTO recipes (id, name, description, system_rating, user_rating, total_user_ratings, cuisine, difficulty, tags, is_public, created_at, updated_at)
		VALUES ($1, $2, '', $3, $3, 10, $4, $5, $6, true, NOW(), NOW())`,
		id, name, rating, cuisine, difficulty, pq.Array(tags),
	)
	require.NoError(t, err, "Failed to insert recipe "+name)
}

func linkIngredient(t *testing.T, db *sql.DB, recipeID, ingredientID string, optional bool, position int) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id, is_optional, position)
		VALUES ($1, $2, $3, $4)`,
		recipeID, ingredientID, optional, position,
	)
	require.NoError(t, err, "Failed to link "+ingredientID+" to "+recipeID)
}
