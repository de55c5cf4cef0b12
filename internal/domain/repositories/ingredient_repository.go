package repositories

import (
	"context"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// IngredientRepository defines the read-only interface onto the ingredient
// table and its alias set
type IngredientRepository interface {
	// GetByName retrieves an ingredient by canonical name
	GetByName(ctx context.Context, name string) (*entities.Ingredient, error)

	// ListAll retrieves every ingredient with its aliases, for index builds
	ListAll(ctx context.Context) ([]*entities.Ingredient, error)

	// ListPopular retrieves ingredients ordered by recipe count descending
	ListPopular(ctx context.Context, limit int) ([]*entities.Ingredient, error)

	// ListByCategory retrieves ingredients in one category, alphabetical
	ListByCategory(ctx context.Context, category entities.IngredientCategory, limit int) ([]*entities.Ingredient, error)

	// CategoryCounts returns the number of ingredients per category
	CategoryCounts(ctx context.Context) (map[entities.IngredientCategory]int, error)

	// AliasMap returns every alias mapped to its canonical ingredient name
	AliasMap(ctx context.Context) (map[string]string, error)
}
