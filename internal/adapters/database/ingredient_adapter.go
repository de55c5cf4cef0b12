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

var ingredientColumns = []interface{}{
	"id", "name", "display_name", "category", "is_common",
	"aliases", "recipe_count", "created_at", "updated_at",
}

// IngredientAdapter implements IngredientRepository
type IngredientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewIngredientAdapter creates a new ingredient adapter
func NewIngredientAdapter(client *postgres.Client) repositories.IngredientRepository {
	return &IngredientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByName retrieves an ingredient by canonical name
func (a *IngredientAdapter) GetByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	query, args, err := a.db.Select(ingredientColumns...).
		From("ingredients").
		Where(goqu.Ex{"name": name}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	ingredient, err := a.scanIngredientRow(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ingredient %q not found", name))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get ingredient", err)
	}

	return ingredient, nil
}

// ListAll retrieves every ingredient with its aliases, for index builds
func (a *IngredientAdapter) ListAll(ctx context.Context) ([]*entities.Ingredient, error) {
	query, args, err := a.db.Select(ingredientColumns...).
		From("ingredients").
		Order(goqu.I("name").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryIngredients(ctx, query, args...)
}

// ListPopular retrieves ingredients ordered by recipe count descending.
// Ties break alphabetically so pages are stable across requests.
func (a *IngredientAdapter) ListPopular(ctx context.Context, limit int) ([]*entities.Ingredient, error) {
	ds := a.db.Select(ingredientColumns...).
		From("ingredients").
		Order(goqu.I("recipe_count").Desc(), goqu.I("name").Asc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryIngredients(ctx, query, args...)
}

// ListByCategory retrieves ingredients in one category, alphabetical
func (a *IngredientAdapter) ListByCategory(ctx context.Context, category entities.IngredientCategory, limit int) ([]*entities.Ingredient, error) {
	ds := a.db.Select(ingredientColumns...).
		From("ingredients").
		Where(goqu.Ex{"category": string(category)}).
		Order(goqu.I("name").Asc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryIngredients(ctx, query, args...)
}

// CategoryCounts returns the number of ingredients per category
func (a *IngredientAdapter) CategoryCounts(ctx context.Context) (map[entities.IngredientCategory]int, error) {
	query, args, err := a.db.Select("category", goqu.COUNT("*").As("ingredient_count")).
		From("ingredients").
		Where(goqu.I("category").IsNotNull()).
		GroupBy("category").
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count categories", err)
	}
	defer rows.Close()

	counts := make(map[entities.IngredientCategory]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan category count", err)
		}
		counts[entities.IngredientCategory(category)] = count
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating category counts", err)
	}

	return counts, nil
}

// AliasMap returns every alias mapped to its canonical ingredient name
func (a *IngredientAdapter) AliasMap(ctx context.Context) (map[string]string, error) {
	query, args, err := a.db.Select("name", goqu.L("unnest(aliases)").As("alias")).
		From("ingredients").
		Where(goqu.L("cardinality(aliases) > 0")).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load alias map", err)
	}
	defer rows.Close()

	aliases := make(map[string]string)
	for rows.Next() {
		var name, alias string
		if err := rows.Scan(&name, &alias); err != nil {
			return nil, apperrors.NewInternalError("failed to scan alias", err)
		}
		aliases[alias] = name
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating aliases", err)
	}

	return aliases, nil
}

func (a *IngredientAdapter) queryIngredients(ctx context.Context, query string, args ...interface{}) ([]*entities.Ingredient, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query ingredients", err)
	}
	defer rows.Close()

	var ingredients []*entities.Ingredient
	for rows.Next() {
		ingredient, err := a.scanIngredientRow(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan ingredient", err)
		}
		ingredients = append(ingredients, ingredient)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating ingredients", err)
	}

	return ingredients, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *IngredientAdapter) scanIngredientRow(row rowScanner) (*entities.Ingredient, error) {
	ingredient := &entities.Ingredient{}
	var category sql.NullString

	err := row.Scan(
		&ingredient.ID,
		&ingredient.Name,
		&ingredient.DisplayName,
		&category,
		&ingredient.IsCommon,
		pq.Array(&ingredient.Aliases),
		&ingredient.RecipeCount,
		&ingredient.CreatedAt,
		&ingredient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		c := entities.IngredientCategory(category.String)
		ingredient.Category = &c
	}

	return ingredient, nil
}
