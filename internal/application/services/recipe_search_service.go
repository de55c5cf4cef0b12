package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/repositories"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/utils"
)

const (
	// maxSearchCandidates caps the candidate fetch per search as a resource
	// guard; it is not a page size
	maxSearchCandidates = 2000

	// relevanceFetchTimeout bounds the optional text-relevance lookup so
	// semantic mode degrades instead of stalling the search
	relevanceFetchTimeout = 3 * time.Second

	// enrichmentTimeout bounds post-ranking substitution enrichment; a slow
	// resolver drops the enrichment, never the page
	enrichmentTimeout = 5 * time.Second
)

// RecipeSearchService orchestrates one pantry search: normalize the input,
// fetch candidates, match, rank, paginate, and optionally enrich the page
// with substitutions for missing ingredients.
type RecipeSearchService struct {
	recipes       repositories.RecipeRepository
	normalizer    *utils.IngredientNormalizer
	matcher       *RecipeMatchService
	ranker        *RecipeRankingService
	relevance     providers.RelevanceProvider
	substitutions *SubstitutionService
	analytics     *SearchAnalyticsService
	cache         providers.CacheProvider
	metrics       *observability.Metrics
	logger        zerolog.Logger
}

// NewRecipeSearchService creates a new search service. The relevance
// provider, substitution service, analytics service, and metrics are
// optional; passing nil disables the corresponding enrichment.
func NewRecipeSearchService(
	recipes repositories.RecipeRepository,
	normalizer *utils.IngredientNormalizer,
	matcher *RecipeMatchService,
	ranker *RecipeRankingService,
	relevance providers.RelevanceProvider,
	substitutions *SubstitutionService,
	analytics *SearchAnalyticsService,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *RecipeSearchService {
	return &RecipeSearchService{
		recipes:       recipes,
		normalizer:    normalizer,
		matcher:       matcher,
		ranker:        ranker,
		relevance:     relevance,
		substitutions: substitutions,
		analytics:     analytics,
		cache:         cache,
		metrics:       metrics,
		logger:        observability.ComponentLogger("search"),
	}
}

// Search finds and ranks recipes cookable from the given pantry. An empty
// pantry after normalization is a validation error; a pantry matching
// nothing is a successful empty result.
func (s *RecipeSearchService) Search(ctx context.Context, userIngredientNames []string, opts entities.SearchOptions) (*entities.SearchResult, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	pantryKeys := s.normalizer.NormalizeAll(userIngredientNames)
	if len(pantryKeys) == 0 {
		return nil, apperrors.NewValidationError("at least one ingredient is required")
	}

	cacheKey := providers.CacheKey(providers.CachePrefixSearch, struct {
		Keys []string               `json:"keys"`
		Opts entities.SearchOptions `json:"opts"`
	}{pantryKeys, opts})

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var result entities.SearchResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	fetchStart := time.Now()
	candidates, err := s.recipes.ListCandidates(ctx, repositories.CandidateFilter{
		IngredientKeys: pantryKeys,
		Cuisine:        opts.Cuisine,
		Difficulty:     opts.Difficulty,
		DietaryTags:    opts.DietaryRestrictions,
		IncludePrivate: opts.IncludePrivate,
		MaxCandidates:  maxSearchCandidates,
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		observability.RecordDBMetric(ctx, s.metrics, "list_candidates", time.Since(fetchStart))
	}

	matched := s.matcher.MatchCandidates(pantryKeys, candidates, opts.MatchMode, opts.MinMatchPercentage)

	var relevanceScores map[string]float64
	if opts.RankingMode == entities.RankingSemantic && s.relevance != nil {
		relevanceScores = s.fetchRelevanceScores(ctx, pantryKeys)
	}

	ranked := s.ranker.Rank(matched, opts.RankingMode, relevanceScores, opts.IncludeScoreBreakdown)
	result := paginate(ranked, opts.Limit, opts.Offset)

	if opts.IncludeSubstitutions && s.substitutions != nil {
		s.enrichWithSubstitutions(ctx, result.Recipes, pantryKeys, opts.DietaryRestrictions)
	}

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, providers.CacheTTLSearchSeconds); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache search result")
		}
	}

	if s.analytics != nil {
		s.analytics.TrackSearch(ctx, &entities.SearchEvent{
			IngredientKeys:  pantryKeys,
			MatchMode:       string(opts.MatchMode),
			RankingMode:     string(opts.RankingMode),
			ResultCount:     result.TotalCount,
			TotalCandidates: len(candidates),
			LatencyMs:       int(time.Since(start).Milliseconds()),
		})
	}
	if s.metrics != nil {
		observability.RecordSearchMetric(ctx, s.metrics, string(opts.MatchMode), result.TotalCount)
	}

	return result, nil
}

// fetchRelevanceScores asks the text engine for per-recipe relevance under
// its own deadline. Any failure means ranking proceeds on base inputs.
func (s *RecipeSearchService) fetchRelevanceScores(ctx context.Context, pantryKeys []string) map[string]float64 {
	rctx, cancel := context.WithTimeout(ctx, relevanceFetchTimeout)
	defer cancel()

	scores, err := s.relevance.ScoreRecipes(rctx, pantryKeys, maxSearchCandidates)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Relevance lookup failed, ranking on base inputs")
		return nil
	}
	return scores
}

// enrichWithSubstitutions resolves substitutes for every ingredient the page's
// recipes need but the pantry lacks, then attaches each recipe's share.
func (s *RecipeSearchService) enrichWithSubstitutions(ctx context.Context, page []entities.RankedRecipe, pantryKeys []string, restrictions []string) {
	pantry := make(map[string]struct{}, len(pantryKeys))
	for _, k := range pantryKeys {
		pantry[k] = struct{}{}
	}

	missingSet := make(map[string]struct{})
	for i := range page {
		for _, key := range page[i].IngredientKeys {
			if _, have := pantry[key]; !have {
				missingSet[key] = struct{}{}
			}
		}
	}
	if len(missingSet) == 0 {
		return
	}

	missing := make([]string, 0, len(missingSet))
	for key := range missingSet {
		missing = append(missing, key)
	}

	ectx, cancel := context.WithTimeout(ctx, enrichmentTimeout)
	defer cancel()

	resolved, err := s.substitutions.ResolveBatch(ectx, missing, &entities.SubstitutionContext{
		UserIngredients:     pantryKeys,
		DietaryRestrictions: restrictions,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Substitution enrichment failed")
		return
	}

	for i := range page {
		var subs map[string][]entities.SubstitutionCandidate
		for _, key := range page[i].IngredientKeys {
			if _, have := pantry[key]; have {
				continue
			}
			r, ok := resolved[key]
			if !ok || len(r.Substitutions) == 0 {
				continue
			}
			if subs == nil {
				subs = make(map[string][]entities.SubstitutionCandidate)
			}
			subs[key] = r.Substitutions
		}
		page[i].MissingSubstitutions = subs
	}
}

// paginate windows the ranked list. TotalCount reports the qualifying count
// before the window; an out-of-range offset yields an empty page, not an
// error.
func paginate(ranked []entities.RankedRecipe, limit, offset int) *entities.SearchResult {
	total := len(ranked)
	if offset >= total {
		return &entities.SearchResult{Recipes: []entities.RankedRecipe{}, TotalCount: total}
	}

	end := offset + limit
	if end > total {
		end = total
	}
	return &entities.SearchResult{Recipes: ranked[offset:end], TotalCount: total}
}
