package entities

import (
	"time"
)

// IngredientCategory is the fixed set of browsable ingredient categories
type IngredientCategory string

const (
	CategoryVegetables IngredientCategory = "vegetables"
	CategoryFruits     IngredientCategory = "fruits"
	CategoryProteins   IngredientCategory = "proteins"
	CategoryDairy      IngredientCategory = "dairy"
	CategoryGrains     IngredientCategory = "grains"
	CategorySpices     IngredientCategory = "spices"
	CategoryCondiments IngredientCategory = "condiments"
	CategoryBaking     IngredientCategory = "baking"
	CategoryOils       IngredientCategory = "oils"
	CategoryOther      IngredientCategory = "other"
)

// AllCategories returns every valid ingredient category
func AllCategories() []IngredientCategory {
	return []IngredientCategory{
		CategoryVegetables, CategoryFruits, CategoryProteins, CategoryDairy,
		CategoryGrains, CategorySpices, CategoryCondiments, CategoryBaking,
		CategoryOils, CategoryOther,
	}
}

// IsValid checks if the category is one of the defined constants
func (c IngredientCategory) IsValid() bool {
	for _, valid := range AllCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Ingredient represents a canonical ingredient identity. The canonical Name
// is unique, lowercase, and normalized; identity is immutable once created.
// RecipeCount is a denormalized popularity counter owned by the persistence
// side that maintains recipe-ingredient links; this engine only reads it.
type Ingredient struct {
	ID          string              `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	DisplayName string              `json:"display_name" db:"display_name"`
	Category    *IngredientCategory `json:"category,omitempty" db:"category"`
	IsCommon    bool                `json:"is_common" db:"is_common"`
	Aliases     []string            `json:"aliases,omitempty" db:"-"`
	RecipeCount int                 `json:"recipe_count" db:"recipe_count"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}
