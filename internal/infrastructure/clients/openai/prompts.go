package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
)

const substitutionSystemPrompt = `You are a culinary assistant for a home cooking platform. Given one ingredient a cook is missing, suggest practical substitutions using widely available ingredients. Return ONLY a valid JSON array with this schema:
[
  {
    "name": string (the substitute ingredient, lowercase),
    "ratio": string (e.g. "1:1" or "3/4 cup per cup"),
    "notes": string (one short usage tip),
    "impact_description": string (one short sentence on how flavor or texture changes),
    "dietary_tags": string[] (tags this substitute satisfies, from: vegan, vegetarian, gluten-free, dairy-free, nut-free),
    "confidence": number (0-100, how reliably this works)
  }
]
Return at most 5 items, best first. Every suggestion must respect ALL listed dietary restrictions. Prefer substitutes from the cook's available ingredients when any fit. Keep language simple. Do not suggest the missing ingredient itself. Do not include text outside the JSON array.`

func buildSubstitutionUserPrompt(query providers.SubstitutionQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Missing ingredient: %s\n", query.IngredientName)
	if query.RecipeName != "" {
		fmt.Fprintf(&b, "Recipe: %s\n", query.RecipeName)
	}
	if query.CookingMethod != "" {
		fmt.Fprintf(&b, "Cooking method: %s\n", query.CookingMethod)
	}
	if len(query.AvailableIngredients) > 0 {
		fmt.Fprintf(&b, "Cook has on hand: %s\n", strings.Join(query.AvailableIngredients, ", "))
	}
	if len(query.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions (must be respected): %s\n", strings.Join(query.DietaryRestrictions, ", "))
	}
	return b.String()
}

// substitutionPayload is the wire shape of one model-suggested candidate
type substitutionPayload struct {
	Name              string   `json:"name"`
	Ratio             string   `json:"ratio"`
	Notes             string   `json:"notes"`
	ImpactDescription string   `json:"impact_description"`
	DietaryTags       []string `json:"dietary_tags"`
	Confidence        *float64 `json:"confidence"`
}

// parseSubstitutionCandidates extracts the JSON array from a model response
// and maps it into domain candidates. Markdown fences and any prose around
// the array are tolerated; a response without a parseable array is an error.
func parseSubstitutionCandidates(text string) ([]entities.SubstitutionCandidate, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("response contains no JSON array")
	}
	cleaned = cleaned[start : end+1]

	var payloads []substitutionPayload
	if err := json.Unmarshal([]byte(cleaned), &payloads); err != nil {
		return nil, fmt.Errorf("failed to parse substitution payload: %w", err)
	}

	candidates := make([]entities.SubstitutionCandidate, 0, len(payloads))
	for _, p := range payloads {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			continue
		}

		candidate := entities.SubstitutionCandidate{
			Name:              name,
			Ratio:             strings.TrimSpace(p.Ratio),
			Notes:             strings.TrimSpace(p.Notes),
			ImpactDescription: strings.TrimSpace(p.ImpactDescription),
			DietaryTags:       p.DietaryTags,
		}
		if p.Confidence != nil {
			c := clampConfidence(*p.Confidence)
			candidate.Confidence = &c
		}

		candidates = append(candidates, candidate)
		if len(candidates) == entities.MaxSubstitutions {
			break
		}
	}

	return candidates, nil
}

func clampConfidence(c float64) float64 {
	// Some models answer 0-1 despite the schema asking for 0-100
	if c > 0 && c <= 1 {
		c = c * 100
	}
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
