package evaluation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGoldenScenarios_ValidFile(t *testing.T) {
	content := `[
		{"id": "s1", "pantry": ["chicken", "rice", "garlic"], "match_mode": "any", "ranking_mode": "balanced", "expected_recipe_ids": ["r-101", "r-102"], "difficulty": "easy"},
		{"id": "s2", "pantry": ["flour", "butter", "sugar", "eggs"], "match_mode": "all", "expected_recipe_ids": ["r-201"], "difficulty": "medium"}
	]`
	path := writeTempFile(t, content)

	scenarios, err := LoadGoldenScenarios(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(scenarios))
	}
	if scenarios[0].ID != "s1" {
		t.Errorf("expected id s1, got %s", scenarios[0].ID)
	}
	if len(scenarios[0].Pantry) != 3 {
		t.Errorf("expected 3 pantry items, got %d", len(scenarios[0].Pantry))
	}
	if len(scenarios[0].ExpectedRecipeIDs) != 2 {
		t.Errorf("expected 2 expected recipes, got %d", len(scenarios[0].ExpectedRecipeIDs))
	}
	if scenarios[1].MatchMode != "all" {
		t.Errorf("expected match mode 'all', got %s", scenarios[1].MatchMode)
	}
}

func TestLoadGoldenScenarios_InvalidFile(t *testing.T) {
	_, err := LoadGoldenScenarios("/nonexistent/path.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGoldenScenarios_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, `not valid json`)
	_, err := LoadGoldenScenarios(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadGoldenScenarios_EmptyArray(t *testing.T) {
	path := writeTempFile(t, `[]`)
	scenarios, err := LoadGoldenScenarios(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenarios) != 0 {
		t.Errorf("expected 0 scenarios, got %d", len(scenarios))
	}
}

func TestValidateGoldenScenarios_MissingID(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "", Pantry: []string{"chicken"}, Difficulty: "easy"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err == nil {
		t.Error("expected validation error for missing ID")
	}
}

func TestValidateGoldenScenarios_EmptyPantry(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"  "}, Difficulty: "easy"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err == nil {
		t.Error("expected validation error for empty pantry")
	}
}

func TestValidateGoldenScenarios_InvalidMatchMode(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken"}, MatchMode: "fuzzy", Difficulty: "easy"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err == nil {
		t.Error("expected validation error for invalid match mode")
	}
}

func TestValidateGoldenScenarios_InvalidRankingMode(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken"}, RankingMode: "chaotic", Difficulty: "easy"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err == nil {
		t.Error("expected validation error for invalid ranking mode")
	}
}

func TestValidateGoldenScenarios_MinMatchOutOfRange(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken"}, MinMatchPercent: 150, Difficulty: "easy"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err == nil {
		t.Error("expected validation error for out-of-range min match percent")
	}
}

func TestValidateGoldenScenarios_InvalidDifficulty(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken"}, Difficulty: "impossible"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err == nil {
		t.Error("expected validation error for invalid difficulty")
	}
}

func TestValidateGoldenScenarios_DuplicateIDs(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken"}, Difficulty: "easy"},
		{ID: "s1", Pantry: []string{"tofu"}, Difficulty: "easy"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err == nil {
		t.Error("expected validation error for duplicate IDs")
	}
}

func TestValidateGoldenScenarios_Valid(t *testing.T) {
	scenarios := []GoldenScenario{
		{ID: "s1", Pantry: []string{"chicken", "rice"}, MatchMode: "any", ExpectedRecipeIDs: []string{"r-1"}, Difficulty: "easy"},
		{ID: "s2", Pantry: []string{"flour", "water"}, MatchMode: "all", RankingMode: "quality", Difficulty: "medium"},
		{ID: "s3", Pantry: []string{"saffron"}, Difficulty: "hard"},
	}
	err := ValidateGoldenScenarios(scenarios)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
