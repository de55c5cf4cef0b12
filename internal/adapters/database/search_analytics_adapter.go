package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/repositories"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/errors"
)

var searchEventColumns = []interface{}{
	"id", "ingredient_keys", "match_mode", "ranking_mode", "result_count",
	"total_candidates", "latency_ms", "session_id", "created_at",
}

// SearchAnalyticsAdapter persists search events for the zero-result report.
type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchAnalyticsAdapter creates a new analytics adapter
func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent inserts one search event, assigning the ID and timestamp when the
// caller left them empty.
func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert("search_events").
		Rows(goqu.Record{
			"id":               event.ID,
			"ingredient_keys":  pq.Array(event.IngredientKeys),
			"match_mode":       event.MatchMode,
			"ranking_mode":     event.RankingMode,
			"result_count":     event.ResultCount,
			"total_candidates": event.TotalCandidates,
			"latency_ms":       event.LatencyMs,
			"session_id":       event.SessionID,
			"created_at":       event.CreatedAt,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}
	return nil
}

// GetZeroResultSearches returns the most recent searches that matched
// nothing, newest first.
func (a *SearchAnalyticsAdapter) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.Select(searchEventColumns...).
		From("search_events").
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query zero result searches", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		event := &entities.SearchEvent{}
		if err := rows.Scan(
			&event.ID,
			pq.Array(&event.IngredientKeys),
			&event.MatchMode,
			&event.RankingMode,
			&event.ResultCount,
			&event.TotalCandidates,
			&event.LatencyMs,
			&event.SessionID,
			&event.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating search events", err)
	}
	return events, nil
}
