package repositories

import (
	"context"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
)

// SearchAnalyticsRepository records search executions for later analysis.
// Zero-result searches are the signal used to grow the alias table.
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
