package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
type SearchEvent struct {
	ID              string    `json:"id" db:"id"`
	IngredientKeys  []string  `json:"ingredient_keys" db:"-"`
	MatchMode       string    `json:"match_mode" db:"match_mode"`
	RankingMode     string    `json:"ranking_mode" db:"ranking_mode"`
	ResultCount     int       `json:"result_count" db:"result_count"`
	TotalCandidates int       `json:"total_candidates" db:"total_candidates"`
	LatencyMs       int       `json:"latency_ms" db:"latency_ms"`
	SessionID       string    `json:"session_id,omitempty" db:"session_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
