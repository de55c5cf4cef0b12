package services

import (
	"os"
)

type FeatureFlags struct {
	semanticRankingEnabled bool
	aiSubstitutionsEnabled bool
	analyticsEnabled       bool
}

// NewFeatureFlags reads feature toggles from the environment. AI
// substitutions and analytics are on unless explicitly disabled; semantic
// ranking additionally requires a configured relevance backend.
func NewFeatureFlags(relevanceConfigured bool) *FeatureFlags {
	semantic := relevanceConfigured && os.Getenv("FEATURE_SEMANTIC_RANKING") != "false"
	ai := os.Getenv("FEATURE_AI_SUBSTITUTIONS") != "false"
	analytics := os.Getenv("FEATURE_SEARCH_ANALYTICS") != "false"

	return &FeatureFlags{
		semanticRankingEnabled: semantic,
		aiSubstitutionsEnabled: ai,
		analyticsEnabled:       analytics,
	}
}

func (f *FeatureFlags) SemanticRankingEnabled() bool {
	return f.semanticRankingEnabled
}

func (f *FeatureFlags) AISubstitutionsEnabled() bool {
	return f.aiSubstitutionsEnabled
}

func (f *FeatureFlags) AnalyticsEnabled() bool {
	return f.analyticsEnabled
}
