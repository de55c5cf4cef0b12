package evaluation

import "time"

// GoldenScenario is one labeled pantry with its expected outcome. Expected
// recipe IDs are the recipes a correct engine should surface for the pantry;
// an empty expectation marks a scenario that should legitimately find nothing.
type GoldenScenario struct {
	ID                string   `json:"id"`
	Pantry            []string `json:"pantry"`
	MatchMode         string   `json:"match_mode"`
	RankingMode       string   `json:"ranking_mode"`
	MinMatchPercent   int      `json:"min_match_percent"`
	ExpectedRecipeIDs []string `json:"expected_recipe_ids"`
	Difficulty        string   `json:"difficulty"` // easy, medium, hard
}

// ScenarioResult holds the evaluation outcome for a single scenario.
type ScenarioResult struct {
	ScenarioID   string
	Pantry       []string
	MatchMode    string
	RecallAt10   float64
	MRRAt10      float64
	ResultCount  int
	RetrievedIDs []string
	Latency      time.Duration
}

// EvalSummary holds aggregate metrics across all golden scenarios.
type EvalSummary struct {
	TotalScenarios    int
	Failures          int // scenarios that errored instead of returning
	AvgRecallAt10     float64
	AvgMRRAt10        float64
	AvgLatency        time.Duration
	ScenariosWithHits int // scenarios that returned at least 1 recipe
	ByMode            map[string]*ModeSummary
}

// ModeSummary holds metrics grouped by match mode.
type ModeSummary struct {
	Count         int
	AvgRecallAt10 float64
	AvgMRRAt10    float64
}
