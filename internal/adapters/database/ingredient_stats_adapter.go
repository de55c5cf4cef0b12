package database

import (
	"context"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
)

// IngredientStatsAdapter recomputes the denormalized per-ingredient counters
// the read path sorts and filters on. Only the backfill binary wires it; the
// engine itself never mutates ingredients.
type IngredientStatsAdapter struct {
	client *postgres.Client
}

// NewIngredientStatsAdapter creates a new ingredient stats adapter
func NewIngredientStatsAdapter(client *postgres.Client) *IngredientStatsAdapter {
	return &IngredientStatsAdapter{client: client}
}

// RecomputeRecipeCounts rewrites ingredients.recipe_count from link
// cardinality. Ingredients with no remaining links are reset to zero.
// Returns the number of rows whose count actually changed.
func (a *IngredientStatsAdapter) RecomputeRecipeCounts(ctx context.Context) (int64, error) {
	recount := `
		UPDATE ingredients i
		SET recipe_count = sub.cnt, updated_at = NOW()
		FROM (
			SELECT ingredient_id, COUNT(DISTINCT recipe_id) AS cnt
			FROM recipe_ingredients
			GROUP BY ingredient_id
		) sub
		WHERE sub.ingredient_id = i.id
		  AND i.recipe_count IS DISTINCT FROM sub.cnt
	`

	result, err := a.client.DB().ExecContext(ctx, recount)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to recompute recipe counts", err)
	}
	changed, _ := result.RowsAffected()

	zero := `
		UPDATE ingredients i
		SET recipe_count = 0, updated_at = NOW()
		WHERE i.recipe_count <> 0
		  AND NOT EXISTS (
			SELECT 1 FROM recipe_ingredients ri WHERE ri.ingredient_id = i.id
		  )
	`

	result, err = a.client.DB().ExecContext(ctx, zero)
	if err != nil {
		return changed, apperrors.NewInternalError("failed to zero unlinked recipe counts", err)
	}
	zeroed, _ := result.RowsAffected()

	return changed + zeroed, nil
}

// RecomputeCommonFlags rewrites ingredients.is_common as recipe_count >=
// threshold. Returns the number of rows whose flag flipped.
func (a *IngredientStatsAdapter) RecomputeCommonFlags(ctx context.Context, threshold int) (int64, error) {
	query := `
		UPDATE ingredients
		SET is_common = (recipe_count >= $1), updated_at = NOW()
		WHERE is_common IS DISTINCT FROM (recipe_count >= $1)
	`

	result, err := a.client.DB().ExecContext(ctx, query, threshold)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to recompute common flags", err)
	}
	changed, _ := result.RowsAffected()

	return changed, nil
}
