package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// stubSearcher answers per first pantry item and records the last options
type stubSearcher struct {
	results  map[string]*entities.SearchResult
	errs     map[string]error
	lastOpts entities.SearchOptions
}

func (s *stubSearcher) Search(ctx context.Context, names []string, opts entities.SearchOptions) (*entities.SearchResult, error) {
	s.lastOpts = opts
	key := ""
	if len(names) > 0 {
		key = names[0]
	}
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	if r := s.results[key]; r != nil {
		return r, nil
	}
	return &entities.SearchResult{Recipes: []entities.RankedRecipe{}}, nil
}

func resultWithIDs(ids ...string) *entities.SearchResult {
	recipes := make([]entities.RankedRecipe, len(ids))
	for i, id := range ids {
		recipes[i] = entities.RankedRecipe{Recipe: entities.Recipe{ID: id}}
	}
	return &entities.SearchResult{Recipes: recipes, TotalCount: len(ids)}
}

func TestRunner_ScoresAndAggregatesByMode(t *testing.T) {
	searcher := &stubSearcher{results: map[string]*entities.SearchResult{
		"chicken": resultWithIDs("r-1", "x", "r-2"),
		"flour":   resultWithIDs("x", "y"),
	}}
	runner := NewRunner(searcher)

	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken"}, MatchMode: "any", ExpectedRecipeIDs: []string{"r-1", "r-2"}, Difficulty: "easy"},
		{ID: "s2", Pantry: []string{"flour"}, MatchMode: "all", ExpectedRecipeIDs: []string{"r-9"}, Difficulty: "hard"},
	}

	summary, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalScenarios)
	assert.Equal(t, 0, summary.Failures)
	assert.InDelta(t, 0.5, summary.AvgRecallAt10, 1e-9)
	assert.InDelta(t, 0.5, summary.AvgMRRAt10, 1e-9)
	assert.Equal(t, 2, summary.ScenariosWithHits)

	require.Contains(t, summary.ByMode, "any")
	require.Contains(t, summary.ByMode, "all")
	assert.Equal(t, 1, summary.ByMode["any"].Count)
	assert.InDelta(t, 1.0, summary.ByMode["any"].AvgRecallAt10, 1e-9)
	assert.InDelta(t, 0.0, summary.ByMode["all"].AvgRecallAt10, 1e-9)
}

func TestRunner_SearchErrorCountsAsFailure(t *testing.T) {
	searcher := &stubSearcher{
		results: map[string]*entities.SearchResult{
			"chicken": resultWithIDs("r-1"),
		},
		errs: map[string]error{"flour": assert.AnError},
	}
	runner := NewRunner(searcher)

	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"flour"}, ExpectedRecipeIDs: []string{"r-9"}, Difficulty: "easy"},
		{ID: "s2", Pantry: []string{"chicken"}, ExpectedRecipeIDs: []string{"r-1"}, Difficulty: "easy"},
	}

	summary, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failures)
	// averages run over scored scenarios only
	assert.InDelta(t, 1.0, summary.AvgRecallAt10, 1e-9)
	assert.Equal(t, 1, summary.ScenariosWithHits)
}

func TestRunner_EmptyExpectationScoresEmptyResult(t *testing.T) {
	searcher := &stubSearcher{results: map[string]*entities.SearchResult{
		"saffron": {Recipes: []entities.RankedRecipe{}},
		"chicken": resultWithIDs("r-1"),
	}}
	runner := NewRunner(searcher)

	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"saffron"}, Difficulty: "hard"},
		{ID: "s2", Pantry: []string{"chicken"}, Difficulty: "hard"},
	}

	summary, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	// s1 expects nothing and got nothing (1.0), s2 expects nothing but got a
	// hit (0.0)
	assert.InDelta(t, 0.5, summary.AvgRecallAt10, 1e-9)
	assert.InDelta(t, 0.5, summary.AvgMRRAt10, 1e-9)
	assert.Equal(t, 1, summary.ScenariosWithHits)
}

func TestRunner_AppliesDefaultModes(t *testing.T) {
	searcher := &stubSearcher{}
	runner := NewRunner(searcher)

	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken"}, MinMatchPercent: 40, Difficulty: "easy"},
	}

	summary, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	assert.Equal(t, entities.MatchAny, searcher.lastOpts.MatchMode)
	assert.Equal(t, entities.RankingBalanced, searcher.lastOpts.RankingMode)
	assert.Equal(t, 40, searcher.lastOpts.MinMatchPercentage)
	assert.Equal(t, 10, searcher.lastOpts.Limit)

	require.Contains(t, summary.ByMode, "any")
	assert.Equal(t, 0, summary.ScenariosWithHits)
}
