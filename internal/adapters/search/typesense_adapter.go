package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	tsclient "github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter scores recipes against ingredient terms using Typesense
// full-text relevance. It backs the semantic ranking mode; search stays
// correct without it, so callers treat a nil adapter as "no relevance data".
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements RelevanceProvider
var _ providers.RelevanceProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(tsclient.RecipesCollection).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	// Create collection
	schema := &api.CollectionSchema{
		Name: tsclient.RecipesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "ingredients", Type: "string[]"},
			{Name: "cuisine", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "tags", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "system_rating", Type: "float"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// IndexRecipe upserts one recipe document
func (a *TypesenseAdapter) IndexRecipe(ctx context.Context, recipe *entities.Recipe) error {
	document := map[string]interface{}{
		"id":            recipe.ID,
		"name":          recipe.Name,
		"description":   recipe.Description,
		"ingredients":   recipe.IngredientKeys,
		"cuisine":       recipe.Cuisine,
		"tags":          recipe.Tags,
		"system_rating": recipe.SystemRating,
		"created_at":    recipe.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.RecipesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index recipe: %w", err)
	}

	return nil
}

// DeleteRecipe removes a recipe from the index
func (a *TypesenseAdapter) DeleteRecipe(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.RecipesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete recipe from index: %w", err)
	}
	return nil
}

// ScoreRecipes searches the recipe collection with the given ingredient terms
// and returns recipe IDs mapped to a 0-100 relevance score. Scores are
// normalized against the best hit in this result set, so they are comparable
// within one query but not across queries.
func (a *TypesenseAdapter) ScoreRecipes(ctx context.Context, terms []string, limit int) (map[string]float64, error) {
	if len(terms) == 0 {
		return map[string]float64{}, nil
	}
	if limit <= 0 {
		limit = 100
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(strings.Join(terms, " ")),
		QueryBy: pointer.String("ingredients,name,description"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.RecipesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to score recipes: %w", err)
	}

	scores := map[string]float64{}
	if result.Hits == nil {
		return scores, nil
	}

	var maxMatch int64
	for _, hit := range *result.Hits {
		if hit.TextMatch != nil && *hit.TextMatch > maxMatch {
			maxMatch = *hit.TextMatch
		}
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		id, ok := doc["id"].(string)
		if !ok {
			continue
		}

		if hit.TextMatch == nil || maxMatch == 0 {
			scores[id] = 0
			continue
		}
		scores[id] = 100.0 * float64(*hit.TextMatch) / float64(maxMatch)
	}

	return scores, nil
}
