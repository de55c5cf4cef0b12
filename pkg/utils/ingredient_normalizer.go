package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// AliasConfig holds the seed alias table mapping ingredient spellings and
// regional names to their canonical identity (e.g. "scallion" -> "green onion")
type AliasConfig struct {
	Version int               `json:"version"`
	Aliases map[string]string `json:"aliases"`
}

// LoadAliasConfig reads an alias table from a JSON file
func LoadAliasConfig(configPath string) (*AliasConfig, error) {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias config: %w", err)
	}

	var config AliasConfig
	if err := json.Unmarshal(configFile, &config); err != nil {
		return nil, fmt.Errorf("failed to parse alias config: %w", err)
	}

	return &config, nil
}

// IngredientNormalizer canonicalizes raw ingredient name strings into stable
// lookup keys. It is pure: construction fixes the alias table, after which
// Normalize performs no I/O and is safe for concurrent use.
type IngredientNormalizer struct {
	aliases map[string]string
}

// NewIngredientNormalizer creates a normalizer over the given alias table.
// Alias keys and targets are themselves canonicalized at construction, and
// alias chains (a -> b where b is also an alias) are collapsed, so Normalize
// is idempotent even over a sloppy table.
func NewIngredientNormalizer(aliases map[string]string) *IngredientNormalizer {
	cleaned := make(map[string]string, len(aliases))
	for k, v := range aliases {
		key := baseNormalize(k)
		target := baseNormalize(v)
		if key == "" || target == "" || key == target {
			continue
		}
		cleaned[key] = target
	}

	// Collapse chains; the hop bound guards against cycles in the table.
	for key, target := range cleaned {
		for hops := 0; hops < 5; hops++ {
			next, ok := cleaned[target]
			if !ok || next == target {
				break
			}
			target = next
		}
		if key == target {
			delete(cleaned, key)
			continue
		}
		cleaned[key] = target
	}

	return &IngredientNormalizer{aliases: cleaned}
}

// Normalize canonicalizes a raw ingredient name. Unrecognized names normalize
// to their cleaned, de-pluralized form rather than erroring, so novel
// ingredients still produce a usable key.
func (n *IngredientNormalizer) Normalize(raw string) string {
	// Step 1: trim, lowercase, collapse whitespace, strip wrapping punctuation
	key := baseNormalize(raw)
	if key == "" {
		return ""
	}

	// Step 2: resolve through the alias table
	if canonical, ok := n.aliases[key]; ok {
		return canonical
	}

	return key
}

// NormalizeAll canonicalizes a list of raw names, dropping empties and
// duplicates while preserving first-seen order.
func (n *IngredientNormalizer) NormalizeAll(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	result := make([]string, 0, len(raws))
	for _, raw := range raws {
		key := n.Normalize(raw)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	return result
}

// CleanName applies the alias-independent canonicalization steps only.
// Index builders use it to key stored names and aliases under the same form
// Normalize produces, without collapsing aliases into their canonical target.
func CleanName(raw string) string {
	return baseNormalize(raw)
}

// baseNormalize applies the alias-independent canonicalization steps
func baseNormalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Strip wrapping punctuation and collapse runs of whitespace
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	// De-pluralize the final word; earlier words qualify it ("brussels sprouts")
	words := strings.Split(s, " ")
	words[len(words)-1] = singularize(words[len(words)-1])
	return strings.Join(words, " ")
}

// singularize strips plural suffixes heuristically. The rules err toward
// leaving a word alone: alias entries cover the irregular cases.
func singularize(word string) string {
	n := len(word)
	if n <= 3 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies") && n > 4:
		return word[:n-3] + "y"
	case strings.HasSuffix(word, "oes") && n > 4:
		return word[:n-2]
	case strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "xes"), strings.HasSuffix(word, "zes"),
		strings.HasSuffix(word, "sses"):
		return word[:n-2]
	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"), strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:n-1]
	}
	return word
}
