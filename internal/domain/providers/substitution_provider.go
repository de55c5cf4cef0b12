package providers

import (
	"context"
	"errors"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// ErrSubstitutionUnauthorized marks a provider rejection that retrying will
// not fix, so callers can stop offering the AI path entirely
var ErrSubstitutionUnauthorized = errors.New("substitution provider rejected credentials")

// SubstitutionQuery carries one ingredient plus the context constraints the
// provider should bias and filter candidates by
type SubstitutionQuery struct {
	IngredientName       string
	RecipeName           string
	CookingMethod        string
	AvailableIngredients []string
	DietaryRestrictions  []string
}

// SubstitutionProvider defines the narrow interface to a generative backend
// that can propose ingredient substitutions. Implementations must respect
// ctx cancellation; the resolver treats any error as "no candidates" and
// degrades without surfacing it to callers.
type SubstitutionProvider interface {
	SuggestSubstitutions(ctx context.Context, query SubstitutionQuery) ([]entities.SubstitutionCandidate, error)
}
