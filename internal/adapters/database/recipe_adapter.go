package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/repositories"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
	"github.com/lib/pq"
)

// RecipeAdapter implements RecipeRepository. Recipes are read together with
// their required-ingredient key sets; the aggregation keeps one round trip
// per query regardless of candidate count.
type RecipeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRecipeAdapter creates a new recipe adapter
func NewRecipeAdapter(client *postgres.Client) repositories.RecipeRepository {
	return &RecipeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// recipeDataset selects recipes joined to their required ingredient names.
// Optional link rows are excluded in the join so ingredient_keys carries only
// the identities that participate in matching.
func (a *RecipeAdapter) recipeDataset() *goqu.SelectDataset {
	return a.db.Select(
		goqu.I("r.id"),
		goqu.I("r.name"),
		goqu.I("r.description"),
		goqu.L("array_remove(array_agg(DISTINCT i.name), NULL)").As("ingredient_keys"),
		goqu.I("r.system_rating"),
		goqu.I("r.user_rating"),
		goqu.I("r.total_user_ratings"),
		goqu.I("r.cuisine"),
		goqu.I("r.difficulty"),
		goqu.I("r.tags"),
		goqu.I("r.is_public"),
		goqu.I("r.owner_id"),
		goqu.I("r.created_at"),
		goqu.I("r.updated_at"),
	).
		From(goqu.T("recipes").As("r")).
		LeftJoin(
			goqu.T("recipe_ingredients").As("ri"),
			goqu.On(
				goqu.I("ri.recipe_id").Eq(goqu.I("r.id")),
				goqu.I("ri.is_optional").IsFalse(),
			),
		).
		LeftJoin(
			goqu.T("ingredients").As("i"),
			goqu.On(goqu.I("i.id").Eq(goqu.I("ri.ingredient_id"))),
		).
		GroupBy(goqu.I("r.id"))
}

// GetByID retrieves a recipe snapshot by ID
func (a *RecipeAdapter) GetByID(ctx context.Context, id string) (*entities.Recipe, error) {
	query, args, err := a.recipeDataset().
		Where(goqu.I("r.id").Eq(id)).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	recipe, err := scanRecipeRow(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("recipe with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get recipe", err)
	}

	return recipe, nil
}

// GetByIDs retrieves multiple recipe snapshots by their IDs
func (a *RecipeAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Recipe, error) {
	if len(ids) == 0 {
		return []*entities.Recipe{}, nil
	}

	query, args, err := a.recipeDataset().
		Where(goqu.I("r.id").In(ids)).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryRecipes(ctx, query, args...)
}

// ListCandidates retrieves recipes sharing at least one required ingredient
// with the given keys. All facet filters apply here, before any scoring; the
// overlap test runs as an EXISTS over the link table so the aggregated
// ingredient_keys column still carries the recipe's full required set.
func (a *RecipeAdapter) ListCandidates(ctx context.Context, filter repositories.CandidateFilter) ([]*entities.Recipe, error) {
	if len(filter.IngredientKeys) == 0 {
		return []*entities.Recipe{}, nil
	}

	overlap := a.db.Select(goqu.L("1")).
		From(goqu.T("recipe_ingredients").As("cri")).
		Join(
			goqu.T("ingredients").As("ci"),
			goqu.On(goqu.I("ci.id").Eq(goqu.I("cri.ingredient_id"))),
		).
		Where(
			goqu.I("cri.recipe_id").Eq(goqu.I("r.id")),
			goqu.I("cri.is_optional").IsFalse(),
			goqu.L("ci.name = ANY(?)", pq.Array(filter.IngredientKeys)),
		)

	ds := a.recipeDataset().Where(goqu.L("EXISTS ?", overlap))

	if filter.Cuisine != "" {
		ds = ds.Where(goqu.L("LOWER(r.cuisine) = LOWER(?)", filter.Cuisine))
	}

	if filter.Difficulty != "" {
		ds = ds.Where(goqu.I("r.difficulty").Eq(string(filter.Difficulty)))
	}

	if len(filter.DietaryTags) > 0 {
		ds = ds.Where(goqu.L("r.tags @> ?", pq.Array(filter.DietaryTags)))
	}

	if !filter.IncludePrivate {
		ds = ds.Where(goqu.I("r.is_public").IsTrue())
	}

	// Newest first so a truncated candidate set stays deterministic
	ds = ds.Order(goqu.I("r.created_at").Desc(), goqu.I("r.id").Asc())

	if filter.MaxCandidates > 0 {
		ds = ds.Limit(uint(filter.MaxCandidates))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	return a.queryRecipes(ctx, query, args...)
}

// ListAll retrieves every recipe snapshot, for relevance index builds
func (a *RecipeAdapter) ListAll(ctx context.Context) ([]*entities.Recipe, error) {
	query, args, err := a.recipeDataset().
		Order(goqu.I("r.created_at").Asc(), goqu.I("r.id").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryRecipes(ctx, query, args...)
}

func (a *RecipeAdapter) queryRecipes(ctx context.Context, query string, args ...interface{}) ([]*entities.Recipe, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query recipes", err)
	}
	defer rows.Close()

	var recipes []*entities.Recipe
	for rows.Next() {
		recipe, err := scanRecipeRow(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan recipe", err)
		}
		recipes = append(recipes, recipe)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating recipes", err)
	}

	return recipes, nil
}

func scanRecipeRow(row rowScanner) (*entities.Recipe, error) {
	recipe := &entities.Recipe{}
	var description, cuisine, difficulty, ownerID sql.NullString

	err := row.Scan(
		&recipe.ID,
		&recipe.Name,
		&description,
		pq.Array(&recipe.IngredientKeys),
		&recipe.SystemRating,
		&recipe.UserRating,
		&recipe.TotalUserRatings,
		&cuisine,
		&difficulty,
		pq.Array(&recipe.Tags),
		&recipe.IsPublic,
		&ownerID,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.Description = description.String
	recipe.Cuisine = cuisine.String
	recipe.Difficulty = entities.RecipeDifficulty(difficulty.String)
	recipe.OwnerID = ownerID.String

	return recipe, nil
}
