package evaluation

import "fmt"

// GuardrailConfig holds the floors an evaluation run must clear. Zero floors
// disable their checks; MaxFailures is a ceiling, so its zero value allows no
// errored scenarios at all.
type GuardrailConfig struct {
	MinAvgRecallAt10 float64
	MinAvgMRRAt10    float64
	MinHitRate       float64 // fraction of scenarios that returned anything
	MaxFailures      int     // scenarios allowed to error before the run fails
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	return &Guardrails{config: config}
}

// Check returns one violation message per breached floor. An empty slice
// means the run passed.
func (g *Guardrails) Check(summary *EvalSummary) []string {
	var violations []string
	if summary == nil || summary.TotalScenarios == 0 {
		return []string{"no scenarios were evaluated"}
	}

	if g.config.MinAvgRecallAt10 > 0 && summary.AvgRecallAt10 < g.config.MinAvgRecallAt10 {
		violations = append(violations, fmt.Sprintf(
			"avg recall@10 %.3f below floor %.3f", summary.AvgRecallAt10, g.config.MinAvgRecallAt10))
	}

	if g.config.MinAvgMRRAt10 > 0 && summary.AvgMRRAt10 < g.config.MinAvgMRRAt10 {
		violations = append(violations, fmt.Sprintf(
			"avg MRR@10 %.3f below floor %.3f", summary.AvgMRRAt10, g.config.MinAvgMRRAt10))
	}

	if g.config.MinHitRate > 0 {
		hitRate := float64(summary.ScenariosWithHits) / float64(summary.TotalScenarios)
		if hitRate < g.config.MinHitRate {
			violations = append(violations, fmt.Sprintf(
				"hit rate %.3f below floor %.3f", hitRate, g.config.MinHitRate))
		}
	}

	if summary.Failures > g.config.MaxFailures {
		violations = append(violations, fmt.Sprintf(
			"%d scenarios errored (allowed %d)", summary.Failures, g.config.MaxFailures))
	}

	return violations
}
