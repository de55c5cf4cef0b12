package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// LoadGoldenScenarios reads and parses a golden scenario set from a JSON file.
func LoadGoldenScenarios(path string) ([]GoldenScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden scenarios file: %w", err)
	}

	var scenarios []GoldenScenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse golden scenarios: %w", err)
	}

	return scenarios, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenScenarios checks that all scenarios have required fields and
// valid values. Modes left empty are allowed; the engine applies its defaults.
func ValidateGoldenScenarios(scenarios []GoldenScenario) error {
	seen := make(map[string]struct{}, len(scenarios))

	for i, s := range scenarios {
		if s.ID == "" {
			return fmt.Errorf("scenario at index %d: missing id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("scenario at index %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}

		if len(nonBlank(s.Pantry)) == 0 {
			return fmt.Errorf("scenario %q: empty pantry", s.ID)
		}
		if s.MatchMode != "" && !entities.MatchMode(s.MatchMode).IsValid() {
			return fmt.Errorf("scenario %q: invalid match mode %q", s.ID, s.MatchMode)
		}
		if s.RankingMode != "" && !entities.RankingMode(s.RankingMode).IsValid() {
			return fmt.Errorf("scenario %q: invalid ranking mode %q", s.ID, s.RankingMode)
		}
		if s.MinMatchPercent < 0 || s.MinMatchPercent > 100 {
			return fmt.Errorf("scenario %q: min match percent %d out of range", s.ID, s.MinMatchPercent)
		}
		if !validDifficulties[s.Difficulty] {
			return fmt.Errorf("scenario %q: invalid difficulty %q (must be easy/medium/hard)", s.ID, s.Difficulty)
		}
	}

	return nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
