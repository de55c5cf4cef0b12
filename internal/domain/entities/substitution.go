package entities

// SubstitutionSource tags where a substitution result came from
type SubstitutionSource string

const (
	// SourceRuleBased means every candidate came from the static rule table
	SourceRuleBased SubstitutionSource = "rule-based"

	// SourceAI means every candidate came from the generative fallback
	SourceAI SubstitutionSource = "ai"

	// SourceHybrid means rule candidates were topped up with AI candidates
	SourceHybrid SubstitutionSource = "hybrid"
)

// MaxSubstitutions caps the candidates returned for one ingredient
const MaxSubstitutions = 5

// RuleOption is one entry in a substitution rule, in preference order
type RuleOption struct {
	SubstituteName    string   `json:"substitute_name"`
	Ratio             string   `json:"ratio,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	ImpactDescription string   `json:"impact_description,omitempty"`
	DietaryTags       []string `json:"dietary_tags,omitempty"`
}

// SubstitutionRule maps a canonical ingredient key to its ordered options.
// Rules are loaded once at process start from a versioned file and never
// mutated at runtime.
type SubstitutionRule struct {
	IngredientKey string       `json:"ingredient_key"`
	Options       []RuleOption `json:"options"`
}

// SubstitutionCandidate is one suggested replacement. Confidence is set only
// for AI-sourced candidates (0-100); rule-based candidates are authoritative
// and carry none.
type SubstitutionCandidate struct {
	Name              string   `json:"name"`
	Ratio             string   `json:"ratio,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	ImpactDescription string   `json:"impact_description,omitempty"`
	DietaryTags       []string `json:"dietary_tags,omitempty"`
	Confidence        *float64 `json:"confidence,omitempty"`
}

// SubstitutionResult is the ephemeral outcome of resolving one ingredient.
// Substitutions holds 0-5 candidates; Source is empty when resolution failed
// and the list is empty. This subsystem does not persist results.
type SubstitutionResult struct {
	Ingredient    string                  `json:"ingredient"`
	Substitutions []SubstitutionCandidate `json:"substitutions"`
	Source        SubstitutionSource      `json:"source,omitempty"`
}

// SubstitutionContext carries the optional request context used to constrain
// and bias candidate selection
type SubstitutionContext struct {
	RecipeName          string   `json:"recipe_name,omitempty"`
	CookingMethod       string   `json:"cooking_method,omitempty"`
	UserIngredients     []string `json:"user_ingredients,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}
