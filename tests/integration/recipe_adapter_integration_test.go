//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/database"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/repositories"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
)

type RecipeAdapterIntegrationTestSuite struct {
	suite.Suite
	client  *postgres.Client
	adapter repositories.RecipeRepository
	db      *sql.DB
}

func (suite *RecipeAdapterIntegrationTestSuite) SetupSuite() {
	suite.client = newTestPostgresClient(suite.T())
	suite.db = suite.client.DB()
	suite.adapter = database.NewRecipeAdapter(suite.client)

	applySchema(suite.T(), suite.db)
}

func (suite *RecipeAdapterIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.Close()
	}
}

func (suite *RecipeAdapterIntegrationTestSuite) SetupTest() {
	truncateAll(suite.T(), suite.db)
	suite.seedFixture()
}

func (suite *RecipeAdapterIntegrationTestSuite) TearDownTest() {
	truncateAll(suite.T(), suite.db)
}

// seedFixture writes three small recipes sharing ingredients:
//
//	rec-1 Garlic Rice   (chinese, easy, vegetarian) garlic+rice, egg optional
//	rec-2 Tomato Egg    (chinese, easy)             tomato+egg
//	rec-3 Tomato Soup   (italian, medium, vegetarian) tomato
func (suite *RecipeAdapterIntegrationTestSuite) seedFixture() {
	t := suite.T()

	insertIngredient(t, suite.db, "ing-garlic", "garlic", true)
	insertIngredient(t, suite.db, "ing-rice", "rice", true)
	insertIngredient(t, suite.db, "ing-egg", "egg", true)
	insertIngredient(t, suite.db, "ing-tomato", "tomato", true)

	insertRecipe(t, suite.db, "rec-1", "Garlic Rice", 84, "chinese", "easy", "vegetarian")
	linkIngredient(t, suite.db, "rec-1", "ing-garlic", false, 1)
	linkIngredient(t, suite.db, "rec-1", "ing-rice", false, 2)
	linkIngredient(t, suite.db, "rec-1", "ing-egg", true, 3)

	insertRecipe(t, suite.db, "rec-2", "Tomato Egg", 80, "chinese", "easy")
	linkIngredient(t, suite.db, "rec-2", "ing-tomato", false, 1)
	linkIngredient(t, suite.db, "rec-2", "ing-egg", false, 2)

	insertRecipe(t, suite.db, "rec-3", "Tomato Soup", 76, "italian", "medium", "vegetarian")
	linkIngredient(t, suite.db, "rec-3", "ing-tomato", false, 1)
}

func (suite *RecipeAdapterIntegrationTestSuite) TestListCandidates_RequiresOverlap() {
	ctx := context.Background()

	recipes, err := suite.adapter.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: []string{"garlic"},
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recipes, 1)
	assert.Equal(suite.T(), "rec-1", recipes[0].ID)

	// Required keys only; optional links never count toward the set
	assert.ElementsMatch(suite.T(), []string{"garlic", "rice"}, recipes[0].IngredientKeys)
}

func (suite *RecipeAdapterIntegrationTestSuite) TestListCandidates_OptionalLinkDoesNotQualify() {
	ctx := context.Background()

	// Egg is optional in rec-1, required in rec-2
	recipes, err := suite.adapter.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: []string{"egg"},
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recipes, 1)
	assert.Equal(suite.T(), "rec-2", recipes[0].ID)
}

func (suite *RecipeAdapterIntegrationTestSuite) TestListCandidates_Filters() {
	ctx := context.Background()

	recipes, err := suite.adapter.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: []string{"tomato"},
		Difficulty:     entities.DifficultyEasy,
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recipes, 1)
	assert.Equal(suite.T(), "rec-2", recipes[0].ID)

	recipes, err = suite.adapter.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: []string{"tomato"},
		DietaryTags:    []string{"vegetarian"},
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recipes, 1)
	assert.Equal(suite.T(), "rec-3", recipes[0].ID)
}

func (suite *RecipeAdapterIntegrationTestSuite) TestListCandidates_Visibility() {
	ctx := context.Background()

	_, err := suite.db.Exec(`UPDATE recipes SET is_public = false WHERE id = 'rec-3'`)
	require.NoError(suite.T(), err)

	recipes, err := suite.adapter.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: []string{"tomato"},
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recipes, 1)
	assert.Equal(suite.T(), "rec-2", recipes[0].ID)

	recipes, err = suite.adapter.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: []string{"tomato"},
		IncludePrivate: true,
	})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), recipes, 2)
}

func (suite *RecipeAdapterIntegrationTestSuite) TestListCandidates_MaxCandidatesCap() {
	ctx := context.Background()

	recipes, err := suite.adapter.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: []string{"tomato"},
		MaxCandidates:  1,
	})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), recipes, 1)
}

func (suite *RecipeAdapterIntegrationTestSuite) TestGetByID() {
	ctx := context.Background()

	recipe, err := suite.adapter.GetByID(ctx, "rec-1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Garlic Rice", recipe.Name)
	assert.Equal(suite.T(), entities.DifficultyEasy, recipe.Difficulty)

	_, err = suite.adapter.GetByID(ctx, "rec-missing")
	require.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func (suite *RecipeAdapterIntegrationTestSuite) TestGetByIDs_SkipsMissing() {
	ctx := context.Background()

	recipes, err := suite.adapter.GetByIDs(ctx, []string{"rec-1", "rec-2", "rec-missing"})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), recipes, 2)
}

func (suite *RecipeAdapterIntegrationTestSuite) TestListAll() {
	ctx := context.Background()

	recipes, err := suite.adapter.ListAll(ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recipes, 3)
}

func TestRecipeAdapterIntegrationTestSuite(t *testing.T) {
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("Skipping integration test: TEST_DB_HOST not set")
	}
	suite.Run(t, new(RecipeAdapterIntegrationTestSuite))
}
