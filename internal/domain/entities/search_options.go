package entities

import (
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
)

// MatchMode selects how a recipe's required set must relate to the user's
// pantry to qualify
type MatchMode string

const (
	// MatchAny qualifies a recipe sharing at least one required ingredient
	MatchAny MatchMode = "any"

	// MatchAll qualifies a recipe whose required set the pantry covers
	MatchAll MatchMode = "all"

	// MatchExact qualifies a recipe whose required set equals the pantry
	MatchExact MatchMode = "exact"
)

// IsValid checks if the match mode is one of the defined constants
func (m MatchMode) IsValid() bool {
	switch m {
	case MatchAny, MatchAll, MatchExact:
		return true
	}
	return false
}

// RankingMode selects the weight vector used to order qualifying recipes
type RankingMode string

const (
	RankingBalanced RankingMode = "balanced"
	RankingQuality  RankingMode = "quality"
	RankingPopular  RankingMode = "popular"
	RankingTrending RankingMode = "trending"
	RankingSemantic RankingMode = "semantic"
)

// IsValid checks if the ranking mode is one of the defined constants
func (r RankingMode) IsValid() bool {
	switch r {
	case RankingBalanced, RankingQuality, RankingPopular, RankingTrending, RankingSemantic:
		return true
	}
	return false
}

const (
	// DefaultSearchLimit is the page size applied when the caller sends none
	DefaultSearchLimit = 20

	// MaxSearchLimit is the largest accepted page size
	MaxSearchLimit = 100

	// DefaultSuggestionLimit is the suggestion count applied when the caller
	// sends none
	DefaultSuggestionLimit = 10

	// MaxSuggestionLimit caps the suggestion count; larger requests are
	// clamped rather than rejected
	MaxSuggestionLimit = 50
)

// SearchOptions carries every recognized knob of a recipe search. The struct
// is closed: unknown fields are rejected at the HTTP boundary, and Validate
// fills defaults so downstream code never re-checks them.
type SearchOptions struct {
	MatchMode             MatchMode        `json:"match_mode,omitempty"`
	Cuisine               string           `json:"cuisine,omitempty"`
	Difficulty            RecipeDifficulty `json:"difficulty,omitempty"`
	DietaryRestrictions   []string         `json:"dietary_restrictions,omitempty"`
	MinMatchPercentage    int              `json:"min_match_percentage,omitempty"`
	Limit                 int              `json:"limit,omitempty"`
	Offset                int              `json:"offset,omitempty"`
	IncludePrivate        bool             `json:"include_private,omitempty"`
	RankingMode           RankingMode      `json:"ranking_mode,omitempty"`
	IncludeScoreBreakdown bool             `json:"include_score_breakdown,omitempty"`
	IncludeSubstitutions  bool             `json:"include_substitutions,omitempty"`
}

// Validate normalizes defaults in place and rejects out-of-range or unknown
// values. Out-of-range limits are an error, never silently coerced.
func (o *SearchOptions) Validate() error {
	if o.MatchMode == "" {
		o.MatchMode = MatchAny
	}
	if !o.MatchMode.IsValid() {
		return apperrors.NewValidationErrorf("unknown match mode %q", o.MatchMode)
	}

	if o.RankingMode == "" {
		o.RankingMode = RankingBalanced
	}
	if !o.RankingMode.IsValid() {
		return apperrors.NewValidationErrorf("unknown ranking mode %q", o.RankingMode)
	}

	if o.Difficulty != "" && !o.Difficulty.IsValid() {
		return apperrors.NewValidationErrorf("unknown difficulty %q", o.Difficulty)
	}

	if o.MinMatchPercentage < 0 || o.MinMatchPercentage > 100 {
		return apperrors.NewValidationErrorf("min match percentage %d out of range 0-100", o.MinMatchPercentage)
	}

	if o.Limit == 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.Limit < 0 || o.Limit > MaxSearchLimit {
		return apperrors.NewValidationErrorf("limit %d out of range 1-%d", o.Limit, MaxSearchLimit)
	}

	if o.Offset < 0 {
		return apperrors.NewValidationErrorf("offset %d must not be negative", o.Offset)
	}

	return nil
}

// SuggestOptions carries the recognized knobs of a suggestion lookup
type SuggestOptions struct {
	Limit      int                `json:"limit,omitempty"`
	Category   IngredientCategory `json:"category,omitempty"`
	CommonOnly bool               `json:"common_only,omitempty"`
}

// Validate normalizes defaults in place. The limit clamps to the maximum
// instead of erroring; suggestions are assist output, not a query contract.
func (o *SuggestOptions) Validate() error {
	if o.Limit <= 0 {
		o.Limit = DefaultSuggestionLimit
	}
	if o.Limit > MaxSuggestionLimit {
		o.Limit = MaxSuggestionLimit
	}

	if o.Category != "" && !o.Category.IsValid() {
		return apperrors.NewValidationErrorf("unknown ingredient category %q", o.Category)
	}

	return nil
}
