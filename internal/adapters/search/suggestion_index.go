package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"
	"github.com/rs/zerolog/log"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/repositories"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/utils"
)

// Matching ladder thresholds. Each tier only runs when the previous tiers
// produced fewer candidates than the caller asked for, so cheap lookups
// short-circuit the expensive ones.
const (
	TrigramThreshold     = 0.30
	LevenshteinThreshold = 0.70
	PhoneticThreshold    = 0.85
)

// SuggestionIndex answers partial ingredient name lookups from an in-memory
// snapshot of the ingredient table. One entry exists per searchable form
// (canonical name plus every stored alias); lookups run exact, prefix,
// trigram, edit-distance, and phonetic tiers in that order and merge the
// survivors. The snapshot swaps atomically on Rebuild so readers never see a
// half-built index.
type SuggestionIndex struct {
	ingredients repositories.IngredientRepository

	mu       sync.RWMutex
	snapshot *indexSnapshot
}

type indexSnapshot struct {
	entries  []indexEntry
	exact    map[string][]int
	trigrams map[string][]int
}

type indexEntry struct {
	ingredient   *entities.Ingredient
	key          string
	alias        string // stored alias that produced this entry, empty for the canonical name
	trigramCount int
	metaPrimary  string
	metaSecond   string
}

// NewSuggestionIndex creates an empty index; call Rebuild before serving
func NewSuggestionIndex(ingredients repositories.IngredientRepository) *SuggestionIndex {
	return &SuggestionIndex{ingredients: ingredients}
}

// Rebuild loads the full ingredient table and swaps in a fresh snapshot.
// Safe to call while lookups are running.
func (idx *SuggestionIndex) Rebuild(ctx context.Context) error {
	all, err := idx.ingredients.ListAll(ctx)
	if err != nil {
		return err
	}

	snapshot := buildSnapshot(all)

	idx.mu.Lock()
	idx.snapshot = snapshot
	idx.mu.Unlock()

	log.Info().
		Int("ingredients", len(all)).
		Int("entries", len(snapshot.entries)).
		Msg("Suggestion index rebuilt")

	return nil
}

// Size returns the number of searchable entries in the current snapshot
func (idx *SuggestionIndex) Size() int {
	snap := idx.current()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// Lookup returns up to limit ingredient suggestions for a partial name.
// Results are ordered with common ingredients first, then by recipe count
// descending, then alphabetically. An unbuilt index returns nothing.
func (idx *SuggestionIndex) Lookup(query string, limit int) []entities.IngredientSuggestion {
	snap := idx.current()
	if snap == nil || len(snap.entries) == 0 || limit <= 0 {
		return []entities.IngredientSuggestion{}
	}

	q := utils.CleanName(query)
	if q == "" {
		return []entities.IngredientSuggestion{}
	}

	found := make(map[string]*suggestionHit)

	// Tier 1: exact key
	for _, i := range snap.exact[q] {
		addHit(found, snap.entries[i])
	}

	// Tier 2: prefix
	if len(found) < limit {
		for i := range snap.entries {
			if strings.HasPrefix(snap.entries[i].key, q) {
				addHit(found, snap.entries[i])
			}
		}
	}

	// Tier 3: trigram overlap for misspellings in the middle of a word
	if len(found) < limit {
		queryTrigrams := trigramSet(q)
		shared := make(map[int]int)
		for _, t := range queryTrigrams {
			for _, i := range snap.trigrams[t] {
				shared[i]++
			}
		}
		for i, overlap := range shared {
			e := snap.entries[i]
			union := len(queryTrigrams) + e.trigramCount - overlap
			if union <= 0 {
				continue
			}
			if float64(overlap)/float64(union) >= TrigramThreshold {
				addHit(found, e)
			}
		}
	}

	// Tier 4: edit distance, catches transpositions trigrams miss
	if len(found) < limit {
		for i := range snap.entries {
			if editSimilarity(q, snap.entries[i].key) >= LevenshteinThreshold {
				addHit(found, snap.entries[i])
			}
		}
	}

	// Tier 5: phonetic, last resort for sound-alike spellings
	if len(found) == 0 {
		qPrimary, qSecond := matchr.DoubleMetaphone(q)
		for i := range snap.entries {
			e := snap.entries[i]
			if !metaphoneOverlap(qPrimary, qSecond, e.metaPrimary, e.metaSecond) {
				continue
			}
			if matchr.JaroWinkler(q, e.key, false) >= PhoneticThreshold {
				addHit(found, e)
			}
		}
	}

	suggestions := make([]entities.IngredientSuggestion, 0, len(found))
	for _, hit := range found {
		suggestions = append(suggestions, hit.suggestion)
	}

	sort.SliceStable(suggestions, func(a, b int) bool {
		if suggestions[a].IsCommon != suggestions[b].IsCommon {
			return suggestions[a].IsCommon
		}
		if suggestions[a].RecipeCount != suggestions[b].RecipeCount {
			return suggestions[a].RecipeCount > suggestions[b].RecipeCount
		}
		return suggestions[a].Name < suggestions[b].Name
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func (idx *SuggestionIndex) current() *indexSnapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.snapshot
}

type suggestionHit struct {
	suggestion entities.IngredientSuggestion
	viaAlias   bool
}

// addHit records an entry, deduplicating by ingredient. A canonical-name
// match supersedes an earlier alias match for the same ingredient.
func addHit(found map[string]*suggestionHit, e indexEntry) {
	existing, ok := found[e.ingredient.ID]
	if ok {
		if existing.viaAlias && e.alias == "" {
			existing.suggestion.MatchedAlias = ""
			existing.viaAlias = false
		}
		return
	}

	suggestion := entities.IngredientSuggestion{
		ID:           e.ingredient.ID,
		Name:         e.ingredient.Name,
		DisplayName:  e.ingredient.DisplayName,
		Category:     e.ingredient.Category,
		IsCommon:     e.ingredient.IsCommon,
		RecipeCount:  e.ingredient.RecipeCount,
		MatchedAlias: e.alias,
	}

	found[e.ingredient.ID] = &suggestionHit{suggestion: suggestion, viaAlias: e.alias != ""}
}

func buildSnapshot(ingredients []*entities.Ingredient) *indexSnapshot {
	snap := &indexSnapshot{
		exact:    make(map[string][]int),
		trigrams: make(map[string][]int),
	}

	appendEntry := func(ingredient *entities.Ingredient, form, alias string) {
		key := utils.CleanName(form)
		if key == "" {
			return
		}

		primary, second := matchr.DoubleMetaphone(key)
		trigrams := trigramSet(key)

		i := len(snap.entries)
		snap.entries = append(snap.entries, indexEntry{
			ingredient:   ingredient,
			key:          key,
			alias:        alias,
			trigramCount: len(trigrams),
			metaPrimary:  primary,
			metaSecond:   second,
		})

		snap.exact[key] = append(snap.exact[key], i)
		for _, t := range trigrams {
			snap.trigrams[t] = append(snap.trigrams[t], i)
		}
	}

	for _, ingredient := range ingredients {
		if ingredient == nil || ingredient.Name == "" {
			continue
		}
		appendEntry(ingredient, ingredient.Name, "")
		for _, alias := range ingredient.Aliases {
			appendEntry(ingredient, alias, alias)
		}
	}

	return snap
}

// trigramSet returns the distinct trigrams of s, padded with two leading and
// one trailing space the way pg_trgm does, so short prefixes weigh in
func trigramSet(s string) []string {
	padded := "  " + s + " "
	runes := []rune(padded)

	seen := make(map[string]struct{})
	result := make([]string, 0, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		t := string(runes[i : i+3])
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}

// editSimilarity scores two strings 0.0-1.0 from their Levenshtein distance
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

func metaphoneOverlap(aPrimary, aSecond, bPrimary, bSecond string) bool {
	for _, a := range []string{aPrimary, aSecond} {
		if a == "" {
			continue
		}
		if a == bPrimary || (bSecond != "" && a == bSecond) {
			return true
		}
	}
	return false
}
