package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardrails_PassingRun(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{
		MinAvgRecallAt10: 0.5,
		MinAvgMRRAt10:    0.3,
		MinHitRate:       0.8,
	})

	summary := &EvalSummary{
		TotalScenarios:    10,
		AvgRecallAt10:     0.72,
		AvgMRRAt10:        0.55,
		ScenariosWithHits: 9,
	}

	assert.Empty(t, g.Check(summary))
}

func TestGuardrails_RecallBelowFloor(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{MinAvgRecallAt10: 0.6})

	summary := &EvalSummary{
		TotalScenarios:    10,
		AvgRecallAt10:     0.4,
		ScenariosWithHits: 10,
	}

	violations := g.Check(summary)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "recall@10")
}

func TestGuardrails_MultipleBreaches(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{
		MinAvgRecallAt10: 0.6,
		MinAvgMRRAt10:    0.5,
		MinHitRate:       0.9,
	})

	summary := &EvalSummary{
		TotalScenarios:    10,
		AvgRecallAt10:     0.2,
		AvgMRRAt10:        0.1,
		ScenariosWithHits: 5,
	}

	assert.Len(t, g.Check(summary), 3)
}

func TestGuardrails_FailuresOverBudget(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{MaxFailures: 1})

	summary := &EvalSummary{
		TotalScenarios: 10,
		Failures:       3,
	}

	violations := g.Check(summary)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "errored")
}

func TestGuardrails_ZeroConfigDisablesFloors(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{})

	summary := &EvalSummary{
		TotalScenarios: 5,
		AvgRecallAt10:  0.0,
		AvgMRRAt10:     0.0,
	}

	assert.Empty(t, g.Check(summary))
}

func TestGuardrails_EmptyRunIsAViolation(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{})

	assert.NotEmpty(t, g.Check(&EvalSummary{}))
	assert.NotEmpty(t, g.Check(nil))
}
