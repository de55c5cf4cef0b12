package entities

// MatchStats holds the match-engine output for one recipe against one
// user ingredient set
type MatchStats struct {
	MatchedCount    int      `json:"matched_count"`
	TotalCount      int      `json:"total_count"`
	MatchPercentage int      `json:"match_percentage"`
	MatchedNames    []string `json:"matched_names"`
}

// ScoreBreakdown exposes the weighted sub-terms behind a ranking score,
// keyed by input name ("match", "system", "user", "recency")
type ScoreBreakdown map[string]float64

// RankedRecipe is a recipe annotated with its match statistics and ranking
// score for one search request
type RankedRecipe struct {
	Recipe

	MatchedIngredients []string       `json:"matched_ingredients"`
	TotalIngredients   int            `json:"total_ingredients"`
	MatchPercentage    int            `json:"match_percentage"`
	RankingScore       float64        `json:"ranking_score"`
	ScoreBreakdown     ScoreBreakdown `json:"score_breakdown,omitempty"`

	// MissingSubstitutions maps each required ingredient the user lacks to
	// its resolved substitution candidates. Populated only when the caller
	// asked for substitution enrichment and the resolver answered in time.
	MissingSubstitutions map[string][]SubstitutionCandidate `json:"missing_substitutions,omitempty"`
}

// SearchResult is the paginated outcome of one recipe search. TotalCount is
// the number of qualifying recipes before the limit/offset window.
type SearchResult struct {
	Recipes    []RankedRecipe `json:"recipes"`
	TotalCount int            `json:"total_count"`
}
