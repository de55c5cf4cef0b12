package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/repositories"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
)

const (
	// analyticsQueueSize bounds the in-flight event backlog; beyond it
	// events drop rather than stall a search
	analyticsQueueSize = 256

	// analyticsWriteTimeout bounds one event insert
	analyticsWriteTimeout = 5 * time.Second
)

// SearchAnalyticsService records search events off the request path. A
// single worker drains a bounded queue, so TrackSearch never blocks and
// never fails the search that produced the event.
type SearchAnalyticsService struct {
	repo   repositories.SearchAnalyticsRepository
	queue  chan *entities.SearchEvent
	done   chan struct{}
	logger zerolog.Logger
}

func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	s := &SearchAnalyticsService{
		repo:   repo,
		queue:  make(chan *entities.SearchEvent, analyticsQueueSize),
		done:   make(chan struct{}),
		logger: observability.ComponentLogger("analytics"),
	}
	go s.drain()
	return s
}

// TrackSearch enqueues one event for background persistence. A full queue
// drops the event.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	select {
	case s.queue <- event:
	default:
		s.logger.Warn().Msg("Analytics queue full, dropping search event")
	}
}

func (s *SearchAnalyticsService) drain() {
	defer close(s.done)
	for event := range s.queue {
		// The request context is gone by write time; each insert gets its own
		ctx, cancel := context.WithTimeout(context.Background(), analyticsWriteTimeout)
		if err := s.repo.LogEvent(ctx, event); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to log search event")
		}
		cancel()
	}
}

// Close flushes queued events and stops the worker. Call only after request
// traffic has stopped; TrackSearch must not race Close.
func (s *SearchAnalyticsService) Close() {
	close(s.queue)
	<-s.done
}

// GetZeroResultSearches lists recent searches that returned nothing. The
// alias table grows from this signal.
func (s *SearchAnalyticsService) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultSearches(ctx, limit)
}
