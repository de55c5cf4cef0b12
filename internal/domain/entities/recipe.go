package entities

import (
	"time"
)

// RecipeDifficulty is the fixed difficulty scale used for filtering
type RecipeDifficulty string

const (
	DifficultyEasy   RecipeDifficulty = "easy"
	DifficultyMedium RecipeDifficulty = "medium"
	DifficultyHard   RecipeDifficulty = "hard"
)

// IsValid checks if the difficulty is one of the defined constants
func (d RecipeDifficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Recipe is the read-only view this engine consumes. IngredientKeys is the
// derived set of canonical required-ingredient identities (optional link rows
// excluded), owned and kept current by the persistence side. The engine
// treats every Recipe as an immutable snapshot for the duration of a query
// and never writes recipe state.
type Recipe struct {
	ID               string           `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Description      string           `json:"description,omitempty" db:"description"`
	IngredientKeys   []string         `json:"ingredient_keys" db:"-"`
	SystemRating     float64          `json:"system_rating" db:"system_rating"`
	UserRating       float64          `json:"user_rating" db:"user_rating"`
	TotalUserRatings int              `json:"total_user_ratings" db:"total_user_ratings"`
	Cuisine          string           `json:"cuisine,omitempty" db:"cuisine"`
	Difficulty       RecipeDifficulty `json:"difficulty,omitempty" db:"difficulty"`
	Tags             []string         `json:"tags,omitempty" db:"-"`
	IsPublic         bool             `json:"is_public" db:"is_public"`
	OwnerID          string           `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// RecipeIngredientLink associates a recipe with one ingredient, carrying the
// per-recipe measurement and ordering detail. A recipe owns an ordered
// sequence of links (Position ascending, grouped by IngredientGroup).
type RecipeIngredientLink struct {
	RecipeID        string  `json:"recipe_id" db:"recipe_id"`
	IngredientID    string  `json:"ingredient_id" db:"ingredient_id"`
	Amount          *string `json:"amount,omitempty" db:"amount"`
	Unit            *string `json:"unit,omitempty" db:"unit"`
	Preparation     *string `json:"preparation,omitempty" db:"preparation"`
	IsOptional      bool    `json:"is_optional" db:"is_optional"`
	Position        int     `json:"position" db:"position"`
	IngredientGroup *string `json:"ingredient_group,omitempty" db:"ingredient_group"`
}
