package services

import (
	"math"
	"sort"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// rankingWeights is one row of the mode table. Every weight applies to an
// input normalized to 0-100, so scores from different modes land on the same
// scale.
type rankingWeights struct {
	match   float64
	system  float64
	user    float64
	recency float64
}

var rankingWeightTable = map[entities.RankingMode]rankingWeights{
	entities.RankingBalanced: {match: 0.60, system: 0.30, user: 0.10},
	entities.RankingQuality:  {match: 0.30, system: 0.50, user: 0.20},
	entities.RankingPopular:  {match: 0.35, system: 0.15, user: 0.50},
	entities.RankingTrending: {match: 0.40, system: 0.15, user: 0.15, recency: 0.30},
	entities.RankingSemantic: {match: 0.60, system: 0.30, user: 0.10},
}

// recencyHalfLifeDays is the age at which the recency input halves
const recencyHalfLifeDays = 30.0

// RecipeRankingService orders matched recipes by a weighted composite score.
// It is pure CPU work; the optional semantic relevance feed arrives
// pre-fetched as a score map so ranking itself never blocks.
type RecipeRankingService struct {
	now func() time.Time
}

// NewRecipeRankingService creates a new ranking service
func NewRecipeRankingService() *RecipeRankingService {
	return &RecipeRankingService{now: time.Now}
}

// Rank scores and orders matched recipes under the given mode. Scores round
// to 2 decimal places; ties at that precision break by match percentage, then
// system rating, then newer creation, then ascending ID, so the order is
// deterministic across runs.
//
// relevanceScores carries 0-100 text-relevance per recipe ID for semantic
// mode; nil means score on the base inputs alone.
func (s *RecipeRankingService) Rank(matched []MatchedRecipe, mode entities.RankingMode, relevanceScores map[string]float64, includeBreakdown bool) []entities.RankedRecipe {
	if len(matched) == 0 {
		return nil
	}

	weights, ok := rankingWeightTable[mode]
	if !ok {
		weights = rankingWeightTable[entities.RankingBalanced]
	}

	ranked := make([]entities.RankedRecipe, len(matched))
	for i, m := range matched {
		score, breakdown := s.calculateScore(m, mode, weights, relevanceScores)
		ranked[i] = entities.RankedRecipe{
			Recipe:             *m.Recipe,
			MatchedIngredients: m.Stats.MatchedNames,
			TotalIngredients:   m.Stats.TotalCount,
			MatchPercentage:    m.Stats.MatchPercentage,
			RankingScore:       score,
		}
		if includeBreakdown {
			ranked[i].ScoreBreakdown = breakdown
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.RankingScore != b.RankingScore {
			return a.RankingScore > b.RankingScore
		}
		if a.MatchPercentage != b.MatchPercentage {
			return a.MatchPercentage > b.MatchPercentage
		}
		if a.SystemRating != b.SystemRating {
			return a.SystemRating > b.SystemRating
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return ranked
}

func (s *RecipeRankingService) calculateScore(m MatchedRecipe, mode entities.RankingMode, weights rankingWeights, relevanceScores map[string]float64) (float64, entities.ScoreBreakdown) {
	matchInput := float64(m.Stats.MatchPercentage)
	if mode == entities.RankingSemantic && relevanceScores != nil {
		// Recipes the text engine never surfaced blend against zero, so
		// text-visible recipes outrank them at equal pantry coverage
		matchInput = (matchInput + relevanceScores[m.Recipe.ID]) / 2
	}

	recencyInput := 0.0
	if weights.recency > 0 {
		ageDays := s.now().Sub(m.Recipe.CreatedAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		recencyInput = 100 * math.Pow(0.5, ageDays/recencyHalfLifeDays)
	}

	breakdown := entities.ScoreBreakdown{
		"match":   weights.match * matchInput,
		"system":  weights.system * m.Recipe.SystemRating,
		"user":    weights.user * m.Recipe.UserRating,
		"recency": weights.recency * recencyInput,
	}

	score := breakdown["match"] + breakdown["system"] + breakdown["user"] + breakdown["recency"]
	return math.Round(score*100) / 100, breakdown
}
