package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/providers"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/retry"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 8 * time.Second

	defaultBurst = 5
)

// Client implements the OpenAI substitution provider. Calls run behind a
// token-bucket rate limiter and a circuit breaker; when the breaker is open
// the client fails immediately without touching the API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
	breaker    *gobreaker.CircuitBreaker[[]entities.SubstitutionCandidate]
}

var _ providers.SubstitutionProvider = (*Client)(nil)

// NewClient creates the client from config, filling in provider defaults.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[[]entities.SubstitutionCandidate](gobreaker.Settings{
		Name:        "openai-substitutions",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    newTokenBucket(cfg.RequestsPerMinute, defaultBurst),
		breaker:    breaker,
	}, nil
}

// SuggestSubstitutions asks the model for replacements for one missing
// ingredient. The context constraints from the query go into the prompt; the
// dietary post-filter stays with the caller, which cannot trust the model to
// have honored them.
func (c *Client) SuggestSubstitutions(ctx context.Context, query providers.SubstitutionQuery) ([]entities.SubstitutionCandidate, error) {
	if query.IngredientName == "" {
		return nil, errors.New("ingredient name is required")
	}

	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordRequest(ctx, c.model, 0, 0, err)
			return nil, err
		}
		recordLimiterWait(ctx, c.model, time.Since(waitStart))
	}

	return c.breaker.Execute(func() ([]entities.SubstitutionCandidate, error) {
		// A credential rejection ends the backoff loop early; the captured
		// error keeps its identity, which retry.Do's abort wrapper drops.
		retryCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var candidates []entities.SubstitutionCandidate
		var authErr error
		err := retry.Do(retryCtx, retry.QuickConfig(), func() error {
			var callErr error
			candidates, callErr = c.call(ctx, query)
			if errors.Is(callErr, providers.ErrSubstitutionUnauthorized) {
				authErr = callErr
				cancel()
			}
			return callErr
		})
		if authErr != nil {
			return nil, authErr
		}
		if err != nil {
			return nil, err
		}
		return candidates, nil
	})
}

type requestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model           string           `json:"model"`
	Input           []requestMessage `json:"input"`
	Temperature     float64          `json:"temperature"`
	MaxOutputTokens int              `json:"max_output_tokens"`
}

type responseEnvelope struct {
	Output []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// firstOutputText returns the first output_text block of the envelope.
func (e *responseEnvelope) firstOutputText() string {
	for _, out := range e.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				return content.Text
			}
		}
	}
	return ""
}

func (c *Client) call(ctx context.Context, query providers.SubstitutionQuery) ([]entities.SubstitutionCandidate, error) {
	body, err := json.Marshal(responsesRequest{
		Model: c.model,
		Input: []requestMessage{
			{Role: "system", Content: substitutionSystemPrompt},
			{Role: "user", Content: buildSubstitutionUserPrompt(query)},
		},
		Temperature:     0.2,
		MaxOutputTokens: 600,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordRequest(ctx, c.model, 0, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordRequest(ctx, c.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: openai request failed with status %d", providers.ErrSubstitutionUnauthorized, resp.StatusCode)
		}
		return nil, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordRequest(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	text := envelope.firstOutputText()
	if text == "" {
		recordRequest(ctx, c.model, resp.StatusCode, time.Since(start), errors.New("missing output text"))
		return nil, errors.New("openai response missing output text")
	}

	candidates, err := parseSubstitutionCandidates(text)
	if err != nil {
		recordRequest(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to parse openai response: %w", err)
	}

	recordRequest(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return candidates, nil
}

// tokenBucket refills one token per interval up to the burst size. A nil
// bucket (negative rpm) means unlimited.
type tokenBucket struct {
	tokens chan struct{}
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = defaultBurst
	}

	bucket := &tokenBucket{tokens: make(chan struct{}, burst)}
	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

var (
	metricsOnce     sync.Once
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	limiterWait     metric.Float64Histogram
	metricsReady    bool
)

func initMetrics() {
	meter := otel.Meter("github.com/kasamira/Pantryrecipediscoverydesign/backend/openai")

	var firstErr error
	count := func(name, description string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return c
	}
	histogram := func(name, description string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name,
			metric.WithDescription(description),
			metric.WithUnit("ms"),
		)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return h
	}

	requestCount = count("ai.openai.request.count", "Number of OpenAI requests")
	requestDuration = histogram("ai.openai.request.duration", "OpenAI request duration in milliseconds")
	requestErrors = count("ai.openai.request.errors", "Number of OpenAI request errors")
	limiterWait = histogram("ai.openai.rate_limit.wait", "Time spent waiting for the OpenAI rate limiter in milliseconds")
	metricsReady = firstErr == nil
}

func modelAttrs(model string, statusCode int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}
	return attrs
}

func recordRequest(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	metricsOnce.Do(initMetrics)
	if !metricsReady {
		return
	}

	attrs := metric.WithAttributes(modelAttrs(model, statusCode)...)
	requestCount.Add(ctx, 1, attrs)
	requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		requestErrors.Add(ctx, 1, attrs)
	}
}

func recordLimiterWait(ctx context.Context, model string, wait time.Duration) {
	metricsOnce.Do(initMetrics)
	if !metricsReady {
		return
	}
	limiterWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(modelAttrs(model, 0)...))
}
