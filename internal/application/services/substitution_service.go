package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/rs/zerolog"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/utils"
)

const (
	// substitutionBatchConcurrency caps concurrent resolutions in one batch
	substitutionBatchConcurrency = 3

	// substitutionAITimeout bounds one generative resolution end to end
	substitutionAITimeout = 8 * time.Second

	// minRuleSurvivors is the rule answer size below which the generative
	// path tops the result up
	minRuleSurvivors = 2
)

type substitutionRulesFile struct {
	Version int                         `json:"version"`
	Rules   []entities.SubstitutionRule `json:"rules"`
}

type dietaryRestrictionsFile struct {
	Version      int                 `json:"version"`
	Restrictions map[string][]string `json:"restrictions"`
}

// SubstitutionService resolves ingredient substitutions through a static rule
// table with a generative fallback. Resolution never fails a request: when
// both paths come up empty the caller gets an empty candidate list. A
// credential rejection from the provider disables the generative path for the
// rest of the process lifetime.
type SubstitutionService struct {
	rules            map[string][]entities.RuleOption
	restrictions     map[string][]string
	normalizer       *utils.IngredientNormalizer
	provider         providers.SubstitutionProvider
	cache            providers.CacheProvider
	metrics          *observability.Metrics
	logger           zerolog.Logger
	aiTimeout        time.Duration
	providerDisabled atomic.Bool
}

// NewSubstitutionService creates a substitution service from the rule and
// restriction config files. provider may be nil, which disables the
// generative path; metrics may be nil.
func NewSubstitutionService(rulesPath, restrictionsPath string, normalizer *utils.IngredientNormalizer, provider providers.SubstitutionProvider, cache providers.CacheProvider, metrics *observability.Metrics) (*SubstitutionService, error) {
	svc := &SubstitutionService{
		rules:        make(map[string][]entities.RuleOption),
		restrictions: make(map[string][]string),
		normalizer:   normalizer,
		provider:     provider,
		cache:        cache,
		metrics:      metrics,
		logger:       observability.ComponentLogger("substitutions"),
		aiTimeout:    substitutionAITimeout,
	}

	if err := svc.loadRules(rulesPath); err != nil {
		return nil, err
	}
	if err := svc.loadRestrictions(restrictionsPath); err != nil {
		return nil, err
	}

	return svc, nil
}

func (s *SubstitutionService) loadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file substitutionRulesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}
	// Rule keys go through the normalizer so a sloppy file still matches
	// normalized lookups
	for _, rule := range file.Rules {
		key := s.normalizer.Normalize(rule.IngredientKey)
		if key == "" || len(rule.Options) == 0 {
			continue
		}
		s.rules[key] = rule.Options
	}
	return nil
}

func (s *SubstitutionService) loadRestrictions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file dietaryRestrictionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}
	for restriction, terms := range file.Restrictions {
		r := strings.ToLower(strings.TrimSpace(restriction))
		if r == "" {
			continue
		}
		cleaned := make([]string, 0, len(terms))
		for _, term := range terms {
			if t := utils.CleanName(term); t != "" {
				cleaned = append(cleaned, t)
			}
		}
		s.restrictions[r] = cleaned
	}
	return nil
}

// RuleCount reports how many rule entries loaded
func (s *SubstitutionService) RuleCount() int {
	return len(s.rules)
}

// Resolve finds substitution candidates for one ingredient. The result lists
// at most five candidates; an empty list with an empty source means neither
// path produced anything, which is not an error.
func (s *SubstitutionService) Resolve(ctx context.Context, ingredientName string, sctx *entities.SubstitutionContext) (*entities.SubstitutionResult, error) {
	key := s.normalizer.Normalize(ingredientName)
	if key == "" {
		return nil, apperrors.NewValidationError("ingredient name is required")
	}

	cacheKey := s.cacheKey(key, sctx)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var result entities.SubstitutionResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	result := s.resolve(ctx, key, sctx)

	// Only successful resolutions are cached; a provider outage should not
	// pin empty answers for the full TTL
	if result.Source != "" {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, providers.CacheTTLSubstitutionSeconds); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to cache substitution result")
			}
		}
	}

	return result, nil
}

// ResolveBatch resolves multiple ingredients through a per-call batched
// loader. Names are normalized and deduplicated; the result map is keyed by
// normalized name. One ingredient failing never disturbs its siblings.
func (s *SubstitutionService) ResolveBatch(ctx context.Context, ingredientNames []string, sctx *entities.SubstitutionContext) (map[string]*entities.SubstitutionResult, error) {
	keys := s.normalizer.NormalizeAll(ingredientNames)
	results := make(map[string]*entities.SubstitutionResult, len(keys))
	if len(keys) == 0 {
		return results, nil
	}

	loader := dataloader.NewBatchedLoader(s.batchResolver(sctx))
	thunks := make([]dataloader.Thunk[*entities.SubstitutionResult], len(keys))
	for i, key := range keys {
		thunks[i] = loader.Load(ctx, key)
	}

	for i, key := range keys {
		result, err := thunks[i]()
		if err != nil {
			s.logger.Warn().Err(err).Str("ingredient", key).Msg("Batch substitution entry failed")
			results[key] = &entities.SubstitutionResult{Ingredient: key, Substitutions: []entities.SubstitutionCandidate{}}
			continue
		}
		results[key] = result
	}
	return results, nil
}

func (s *SubstitutionService) batchResolver(sctx *entities.SubstitutionContext) dataloader.BatchFunc[string, *entities.SubstitutionResult] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*entities.SubstitutionResult] {
		results := make([]*dataloader.Result[*entities.SubstitutionResult], len(keys))

		sem := make(chan struct{}, substitutionBatchConcurrency)
		var wg sync.WaitGroup
		for i, key := range keys {
			wg.Add(1)
			go func(i int, key string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				result, err := s.Resolve(ctx, key, sctx)
				if err != nil {
					results[i] = &dataloader.Result[*entities.SubstitutionResult]{Error: err}
					return
				}
				results[i] = &dataloader.Result[*entities.SubstitutionResult]{Data: result}
			}(i, key)
		}
		wg.Wait()

		return results
	}
}

func (s *SubstitutionService) cacheKey(key string, sctx *entities.SubstitutionContext) string {
	params := struct {
		Ingredient string                        `json:"ingredient"`
		Context    *entities.SubstitutionContext `json:"context,omitempty"`
	}{key, sctx}
	return providers.CacheKey(providers.CachePrefixSubstitution, params)
}

func (s *SubstitutionService) resolve(ctx context.Context, key string, sctx *entities.SubstitutionContext) *entities.SubstitutionResult {
	result := &entities.SubstitutionResult{
		Ingredient:    key,
		Substitutions: []entities.SubstitutionCandidate{},
	}

	restrictions := restrictionsOf(sctx)

	ruleCandidates, ruleFound := s.ruleCandidates(key, restrictions)
	if ruleFound && (len(ruleCandidates) >= minRuleSurvivors || !s.providerAvailable()) {
		if len(ruleCandidates) > 0 {
			result.Substitutions = capCandidates(ruleCandidates)
			result.Source = entities.SourceRuleBased
		}
		return result
	}

	if !s.providerAvailable() {
		return result
	}

	aiCandidates, ok := s.callProvider(ctx, key, sctx)
	if !ok {
		// Generative path failed; a thin rule answer still beats nothing
		if len(ruleCandidates) > 0 {
			result.Substitutions = capCandidates(ruleCandidates)
			result.Source = entities.SourceRuleBased
		}
		return result
	}
	aiCandidates = s.filterByRestrictions(aiCandidates, restrictions)

	merged := mergeCandidates(ruleCandidates, aiCandidates)
	if len(merged) == 0 {
		return result
	}

	result.Substitutions = merged
	switch {
	case len(ruleCandidates) == 0:
		result.Source = entities.SourceAI
	case len(merged) > len(ruleCandidates):
		result.Source = entities.SourceHybrid
	default:
		result.Source = entities.SourceRuleBased
	}
	return result
}

// ruleCandidates returns the rule table's surviving options for a key and
// whether a rule existed at all
func (s *SubstitutionService) ruleCandidates(key string, restrictions []string) ([]entities.SubstitutionCandidate, bool) {
	options, ok := s.rules[key]
	if !ok {
		return nil, false
	}

	candidates := make([]entities.SubstitutionCandidate, 0, len(options))
	for _, opt := range options {
		candidates = append(candidates, entities.SubstitutionCandidate{
			Name:              opt.SubstituteName,
			Ratio:             opt.Ratio,
			Notes:             opt.Notes,
			ImpactDescription: opt.ImpactDescription,
			DietaryTags:       opt.DietaryTags,
		})
	}
	return s.filterByRestrictions(candidates, restrictions), true
}

func (s *SubstitutionService) callProvider(ctx context.Context, key string, sctx *entities.SubstitutionContext) ([]entities.SubstitutionCandidate, bool) {
	if s.metrics != nil {
		observability.RecordAIFallback(ctx, s.metrics)
	}

	query := providers.SubstitutionQuery{IngredientName: key}
	if sctx != nil {
		query.RecipeName = sctx.RecipeName
		query.CookingMethod = sctx.CookingMethod
		query.AvailableIngredients = sctx.UserIngredients
		query.DietaryRestrictions = sctx.DietaryRestrictions
	}

	callCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	candidates, err := s.provider.SuggestSubstitutions(callCtx, query)
	if err != nil {
		if errors.Is(err, providers.ErrSubstitutionUnauthorized) {
			// The key loads once at startup, so a rejection holds until restart
			s.providerDisabled.Store(true)
			s.logger.Error().Err(err).Msg("Substitution provider rejected credentials, disabling the generative path")
			return nil, false
		}
		s.logger.Warn().Err(err).Str("ingredient", key).Msg("Substitution provider failed")
		return nil, false
	}
	return candidates, true
}

// providerAvailable reports whether the generative path can be offered
func (s *SubstitutionService) providerAvailable() bool {
	return s.provider != nil && !s.providerDisabled.Load()
}

// filterByRestrictions drops candidates that violate a stated dietary
// restriction. An explicit dietary tag on the candidate vouches for it even
// when its name matches a forbidden term ("vegan butter" stays vegan).
func (s *SubstitutionService) filterByRestrictions(candidates []entities.SubstitutionCandidate, restrictions []string) []entities.SubstitutionCandidate {
	if len(restrictions) == 0 {
		return candidates
	}

	kept := make([]entities.SubstitutionCandidate, 0, len(candidates))
	for _, c := range candidates {
		if s.violatesAny(c, restrictions) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func (s *SubstitutionService) violatesAny(c entities.SubstitutionCandidate, restrictions []string) bool {
	name := utils.CleanName(c.Name)
	for _, restriction := range restrictions {
		r := strings.ToLower(strings.TrimSpace(restriction))
		terms := s.restrictions[r]
		if len(terms) == 0 {
			continue
		}
		if hasDietaryTag(c, r) {
			continue
		}
		for _, term := range terms {
			if containsTerm(name, term) {
				return true
			}
		}
	}
	return false
}

func hasDietaryTag(c entities.SubstitutionCandidate, restriction string) bool {
	for _, tag := range c.DietaryTags {
		if strings.ToLower(strings.TrimSpace(tag)) == restriction {
			return true
		}
	}
	return false
}

// containsTerm reports whether name contains term on word boundaries, so
// "butter" flags "clarified butter" but not "butternut squash"
func containsTerm(name, term string) bool {
	return strings.Contains(" "+name+" ", " "+term+" ")
}

func restrictionsOf(sctx *entities.SubstitutionContext) []string {
	if sctx == nil {
		return nil
	}
	return sctx.DietaryRestrictions
}

func mergeCandidates(ruleCandidates, aiCandidates []entities.SubstitutionCandidate) []entities.SubstitutionCandidate {
	merged := make([]entities.SubstitutionCandidate, 0, len(ruleCandidates)+len(aiCandidates))
	seen := make(map[string]struct{})

	for _, list := range [][]entities.SubstitutionCandidate{ruleCandidates, aiCandidates} {
		for _, c := range list {
			name := utils.CleanName(c.Name)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, c)
			if len(merged) == entities.MaxSubstitutions {
				return merged
			}
		}
	}
	return merged
}

func capCandidates(candidates []entities.SubstitutionCandidate) []entities.SubstitutionCandidate {
	if len(candidates) > entities.MaxSubstitutions {
		return candidates[:entities.MaxSubstitutions]
	}
	return candidates
}
