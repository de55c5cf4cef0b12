package services

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/utils"
)

// SuggestionLookup is the fuzzy index surface this service fronts
type SuggestionLookup interface {
	Lookup(query string, limit int) []entities.IngredientSuggestion
}

// minSuggestionQueryLen is the shortest partial worth matching; single
// characters produce noise, not suggestions
const minSuggestionQueryLen = 2

// IngredientSuggestionService serves typeahead suggestions from the in-memory
// fuzzy index, with a cache in front for repeated partials
type IngredientSuggestionService struct {
	index   SuggestionLookup
	cache   providers.CacheProvider
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewIngredientSuggestionService creates a new suggestion service. metrics
// may be nil.
func NewIngredientSuggestionService(index SuggestionLookup, cache providers.CacheProvider, metrics *observability.Metrics) *IngredientSuggestionService {
	return &IngredientSuggestionService{
		index:   index,
		cache:   cache,
		metrics: metrics,
		logger:  observability.ComponentLogger("suggestions"),
	}
}

// Suggest returns ingredient suggestions for a partial name. Partials shorter
// than two characters and partials matching nothing both return an empty
// list, never an error.
func (s *IngredientSuggestionService) Suggest(ctx context.Context, partial string, opts entities.SuggestOptions) ([]entities.IngredientSuggestion, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	query := utils.CleanName(partial)
	if utf8.RuneCountInString(query) < minSuggestionQueryLen {
		return []entities.IngredientSuggestion{}, nil
	}

	cacheKey := providers.CacheKey(providers.CachePrefixSuggestion, struct {
		Query      string                      `json:"query"`
		Limit      int                         `json:"limit"`
		Category   entities.IngredientCategory `json:"category"`
		CommonOnly bool                        `json:"common_only"`
	}{query, opts.Limit, opts.Category, opts.CommonOnly})

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var suggestions []entities.IngredientSuggestion
		if err := json.Unmarshal(cached, &suggestions); err == nil {
			if s.metrics != nil {
				observability.RecordCacheHit(ctx, s.metrics, providers.CachePrefixSuggestion)
			}
			return suggestions, nil
		}
	}
	if s.metrics != nil {
		observability.RecordCacheMiss(ctx, s.metrics, providers.CachePrefixSuggestion)
	}

	// Fetch wide when filters are on so post-filtering can still fill a page
	fetchLimit := opts.Limit
	if opts.Category != "" || opts.CommonOnly {
		fetchLimit = entities.MaxSuggestionLimit
	}

	suggestions := s.index.Lookup(query, fetchLimit)
	suggestions = filterSuggestions(suggestions, opts)
	if len(suggestions) > opts.Limit {
		suggestions = suggestions[:opts.Limit]
	}

	if data, err := json.Marshal(suggestions); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, providers.CacheTTLSuggestionSeconds); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache suggestions")
		}
	}

	return suggestions, nil
}

func filterSuggestions(suggestions []entities.IngredientSuggestion, opts entities.SuggestOptions) []entities.IngredientSuggestion {
	if opts.Category == "" && !opts.CommonOnly {
		return suggestions
	}

	filtered := suggestions[:0]
	for _, sg := range suggestions {
		if opts.CommonOnly && !sg.IsCommon {
			continue
		}
		if opts.Category != "" && (sg.Category == nil || *sg.Category != opts.Category) {
			continue
		}
		filtered = append(filtered, sg)
	}
	return filtered
}
