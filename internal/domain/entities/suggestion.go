package entities

// IngredientSuggestion is one input-assist candidate returned by the fuzzy
// suggestion path
type IngredientSuggestion struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	DisplayName string              `json:"display_name"`
	Category    *IngredientCategory `json:"category,omitempty"`
	IsCommon    bool                `json:"is_common"`
	RecipeCount int                 `json:"recipe_count"`

	// MatchedAlias is set when the suggestion was reached through one of the
	// ingredient's aliases rather than its canonical name
	MatchedAlias string `json:"matched_alias,omitempty"`
}
