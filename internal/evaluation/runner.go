package evaluation

import (
	"context"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// RecipeSearcher is the slice of the search service the runner drives.
type RecipeSearcher interface {
	Search(ctx context.Context, userIngredientNames []string, opts entities.SearchOptions) (*entities.SearchResult, error)
}

// Runner executes golden scenarios against a live search service and scores
// the returned rankings against each scenario's expectation.
type Runner struct {
	searcher RecipeSearcher
}

func NewRunner(searcher RecipeSearcher) *Runner {
	return &Runner{searcher: searcher}
}

func (r *Runner) Run(ctx context.Context, scenarios []GoldenScenario) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalScenarios: len(scenarios),
		ByMode:         make(map[string]*ModeSummary),
	}

	for _, scenario := range scenarios {
		opts := entities.SearchOptions{
			MatchMode:          entities.MatchMode(scenario.MatchMode),
			RankingMode:        entities.RankingMode(scenario.RankingMode),
			MinMatchPercentage: scenario.MinMatchPercent,
			Limit:              10,
		}
		if opts.MatchMode == "" {
			opts.MatchMode = entities.MatchAny
		}
		if opts.RankingMode == "" {
			opts.RankingMode = entities.RankingBalanced
		}

		start := time.Now()
		searchResult, err := r.searcher.Search(ctx, scenario.Pantry, opts)
		duration := time.Since(start)

		if err != nil {
			summary.Failures++
			continue
		}

		retrievedIDs := make([]string, len(searchResult.Recipes))
		for i, recipe := range searchResult.Recipes {
			retrievedIDs[i] = recipe.ID
		}

		recall := RecallAtK(scenario.ExpectedRecipeIDs, retrievedIDs, 10)
		mrr := MRRAtK(scenario.ExpectedRecipeIDs, retrievedIDs, 10)
		if len(scenario.ExpectedRecipeIDs) == 0 {
			// An empty expectation means the scenario should find nothing:
			// an empty result set scores full marks, any hit scores zero.
			recall, mrr = 0, 0
			if searchResult.TotalCount == 0 {
				recall, mrr = 1, 1
			}
		}

		result := ScenarioResult{
			ScenarioID:   scenario.ID,
			Pantry:       scenario.Pantry,
			MatchMode:    string(opts.MatchMode),
			RecallAt10:   recall,
			MRRAt10:      mrr,
			ResultCount:  searchResult.TotalCount,
			RetrievedIDs: retrievedIDs,
			Latency:      duration,
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res ScenarioResult) {
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency
	if res.ResultCount > 0 {
		s.ScenariosWithHits++
	}

	if _, ok := s.ByMode[res.MatchMode]; !ok {
		s.ByMode[res.MatchMode] = &ModeSummary{}
	}
	ms := s.ByMode[res.MatchMode]
	ms.Count++
	ms.AvgRecallAt10 += res.RecallAt10
	ms.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	scored := s.TotalScenarios - s.Failures
	if scored > 0 {
		n := float64(scored)
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(scored)
	}

	for _, ms := range s.ByMode {
		if ms.Count > 0 {
			n := float64(ms.Count)
			ms.AvgRecallAt10 /= n
			ms.AvgMRRAt10 /= n
		}
	}
}
