package repositories

import (
	"context"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// RecipeRepository defines the read-only interface onto the recipe corpus.
// Writes are owned by the CRUD side of the product; this engine only consumes
// snapshots.
type RecipeRepository interface {
	// GetByID retrieves a recipe snapshot by ID
	GetByID(ctx context.Context, id string) (*entities.Recipe, error)

	// GetByIDs retrieves multiple recipe snapshots by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Recipe, error)

	// ListCandidates retrieves recipe snapshots that share at least one
	// required ingredient with the given keys, pre-filtered per CandidateFilter.
	// Recipes with an empty required-ingredient set are never returned.
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]*entities.Recipe, error)

	// ListAll retrieves every recipe snapshot, for relevance index builds
	ListAll(ctx context.Context) ([]*entities.Recipe, error)
}

// CandidateFilter narrows the candidate set fetched for matching. All filters
// apply before match-percentage math, never inside it.
type CandidateFilter struct {
	// IngredientKeys are the user's canonical ingredient identities; a
	// candidate must reference at least one of them
	IngredientKeys []string

	// Cuisine, when set, restricts candidates to one cuisine
	Cuisine string

	// Difficulty, when set, restricts candidates to one difficulty
	Difficulty entities.RecipeDifficulty

	// DietaryTags, when set, requires candidates to carry every listed tag
	DietaryTags []string

	// IncludePrivate also returns recipes not flagged public
	IncludePrivate bool

	// MaxCandidates caps the fetched set as a resource guard; it is not the
	// page size
	MaxCandidates int
}
