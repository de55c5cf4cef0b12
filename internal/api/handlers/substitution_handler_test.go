package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/api/handlers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

type stubResolver struct {
	result      *entities.SubstitutionResult
	batch       map[string]*entities.SubstitutionResult
	lastName    string
	lastNames   []string
	lastContext *entities.SubstitutionContext
}

func (s *stubResolver) Resolve(ctx context.Context, ingredientName string, sctx *entities.SubstitutionContext) (*entities.SubstitutionResult, error) {
	s.lastName = ingredientName
	s.lastContext = sctx
	return s.result, nil
}

func (s *stubResolver) ResolveBatch(ctx context.Context, ingredientNames []string, sctx *entities.SubstitutionContext) (map[string]*entities.SubstitutionResult, error) {
	s.lastNames = ingredientNames
	s.lastContext = sctx
	return s.batch, nil
}

func TestSubstitutionHandler_ResolveSubstitution(t *testing.T) {
	resolver := &stubResolver{result: &entities.SubstitutionResult{
		Ingredient: "butter",
		Substitutions: []entities.SubstitutionCandidate{
			{Name: "olive oil", Ratio: "3/4 cup per 1 cup butter"},
		},
		Source: entities.SourceRuleBased,
	}}
	handler := handlers.NewSubstitutionHandler(resolver, nil)

	body := `{"ingredient":"butter","context":{"dietary_restrictions":["vegan"]}}`
	req := httptest.NewRequest("POST", "/api/substitutions", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()

	handler.ResolveSubstitution(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "butter", resolver.lastName)
	require.NotNil(t, resolver.lastContext)
	assert.Equal(t, []string{"vegan"}, resolver.lastContext.DietaryRestrictions)

	var response entities.SubstitutionResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, entities.SourceRuleBased, response.Source)
	require.Len(t, response.Substitutions, 1)
	assert.Equal(t, "olive oil", response.Substitutions[0].Name)
}

func TestSubstitutionHandler_ResolveSubstitution_RejectsUnknownFields(t *testing.T) {
	handler := handlers.NewSubstitutionHandler(&stubResolver{}, nil)

	body := `{"ingredient":"butter","mode":"strict"}`
	req := httptest.NewRequest("POST", "/api/substitutions", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()

	handler.ResolveSubstitution(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubstitutionHandler_ResolveSubstitutionBatch(t *testing.T) {
	resolver := &stubResolver{batch: map[string]*entities.SubstitutionResult{
		"butter": {Ingredient: "butter", Source: entities.SourceRuleBased},
		"yuzu":   {Ingredient: "yuzu"},
	}}
	handler := handlers.NewSubstitutionHandler(resolver, nil)

	body := `{"ingredients":["butter","yuzu"]}`
	req := httptest.NewRequest("POST", "/api/substitutions/batch", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()

	handler.ResolveSubstitutionBatch(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"butter", "yuzu"}, resolver.lastNames)

	var response struct {
		Results map[string]*entities.SubstitutionResult `json:"results"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Results, 2)
}

func TestSubstitutionHandler_ResolveSubstitutionBatch_EmptyRejected(t *testing.T) {
	handler := handlers.NewSubstitutionHandler(&stubResolver{}, nil)

	req := httptest.NewRequest("POST", "/api/substitutions/batch", strings.NewReader(`{"ingredients":[]}`))
	req.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()

	handler.ResolveSubstitutionBatch(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubstitutionHandler_ResolveSubstitutionBatch_TooManyRejected(t *testing.T) {
	handler := handlers.NewSubstitutionHandler(&stubResolver{}, nil)

	names := make([]string, 21)
	for i := range names {
		names[i] = "ingredient"
	}
	body, err := json.Marshal(map[string]interface{}{"ingredients": names})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/substitutions/batch", strings.NewReader(string(body)))
	req.RemoteAddr = "10.0.0.5:1234"
	w := httptest.NewRecorder()

	handler.ResolveSubstitutionBatch(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubstitutionHandler_RateLimit(t *testing.T) {
	resolver := &stubResolver{result: &entities.SubstitutionResult{Ingredient: "butter"}}
	handler := handlers.NewSubstitutionHandler(resolver, nil)

	for i := 0; i < 30; i++ {
		req := httptest.NewRequest("POST", "/api/substitutions", strings.NewReader(`{"ingredient":"butter"}`))
		req.RemoteAddr = "10.0.0.6:1234"
		w := httptest.NewRecorder()
		handler.ResolveSubstitution(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("POST", "/api/substitutions", strings.NewReader(`{"ingredient":"butter"}`))
	req.RemoteAddr = "10.0.0.6:1234"
	w := httptest.NewRecorder()
	handler.ResolveSubstitution(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestSubstitutionHandler_RateLimitIsPerClient(t *testing.T) {
	resolver := &stubResolver{result: &entities.SubstitutionResult{Ingredient: "butter"}}
	handler := handlers.NewSubstitutionHandler(resolver, nil)

	for i := 0; i < 30; i++ {
		req := httptest.NewRequest("POST", "/api/substitutions", strings.NewReader(`{"ingredient":"butter"}`))
		req.RemoteAddr = "10.0.0.7:1234"
		w := httptest.NewRecorder()
		handler.ResolveSubstitution(w, req)
	}

	req := httptest.NewRequest("POST", "/api/substitutions", strings.NewReader(`{"ingredient":"butter"}`))
	req.RemoteAddr = "10.0.0.8:1234"
	w := httptest.NewRecorder()
	handler.ResolveSubstitution(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
