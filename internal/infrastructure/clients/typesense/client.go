package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/retry"
)

const RecipesCollection = "recipes"

const (
	connectTimeout     = 5 * time.Second
	healthProbeTimeout = 2 * time.Second
)

// Client wraps the Typesense connection. Collection schemas are owned by
// the search adapter; this wrapper only manages connectivity.
type Client struct {
	client *typesense.Client
}

// NewClient connects to Typesense, retrying with backoff until the health
// endpoint answers.
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(connectTimeout),
	)

	logger := observability.ComponentLogger("typesense")
	err := retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			_, err := client.Health(ctx, healthProbeTimeout)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().
				Int("attempt", attempt).
				Err(err).
				Dur("next_delay", nextDelay).
				Msg("Typesense connection attempt failed, retrying")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	logger.Info().Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// Client exposes the underlying Typesense client.
func (c *Client) Client() *typesense.Client {
	return c.client
}
