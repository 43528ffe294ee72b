package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
)

const (
	defaultHistoryQueueSize = 256
	defaultHistoryLimit     = 50
	maxHistoryLimit         = 500
)

type historyJob struct {
	ctx   context.Context
	event domain.HistoryEvent
}

// historyService writes audit events on a background worker so that
// money transactions never wait on, or fail because of, the audit log.
type historyService struct {
	BaseService
	historyRepo portsrepo.HistoryRepositoryFacade

	mu     sync.RWMutex
	closed bool
	queue  chan historyJob
	done   chan struct{}
}

// NewHistoryService starts the history worker. Close must be called to drain it.
func NewHistoryService(historyRepo portsrepo.HistoryRepositoryFacade, queueSize int, options ...ServiceOption) portssvc.HistorySvcFacade {
	if queueSize <= 0 {
		queueSize = defaultHistoryQueueSize
	}
	s := &historyService{
		BaseService: newBaseService(options),
		historyRepo: historyRepo,
		queue:       make(chan historyJob, queueSize),
		done:        make(chan struct{}),
	}
	go s.run()
	return s
}

var _ portssvc.HistorySvcFacade = (*historyService)(nil)

func (s *historyService) run() {
	defer close(s.done)
	for job := range s.queue {
		if err := s.historyRepo.SaveHistoryEvent(job.ctx, job.event); err != nil {
			s.LogError(job.ctx, err, "Failed to write history event",
				slog.String("event_id", job.event.EventID),
				slog.String("event_type", string(job.event.EventType)))
		}
	}
}

// Record queues an event. It never blocks: when the queue is full the event is dropped and logged.
func (s *historyService) Record(ctx context.Context, event domain.HistoryEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.LogWarn(ctx, "History recorder closed, dropping event", slog.String("event_type", string(event.EventType)))
		return
	}
	select {
	case s.queue <- historyJob{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		s.LogWarn(ctx, "History queue full, dropping event",
			slog.String("event_id", event.EventID),
			slog.String("event_type", string(event.EventType)))
	}
}

// Close stops accepting events and waits until queued ones are written.
func (s *historyService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

// ListHistory returns events matching filter, newest first.
func (s *historyService) ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEvent, error) {
	if filter.EventType != "" && !filter.EventType.Valid() {
		return nil, apperrors.NewValidationError("event_type", fmt.Sprintf("unknown event type '%s'", filter.EventType))
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultHistoryLimit
	case filter.Limit > maxHistoryLimit:
		filter.Limit = maxHistoryLimit
	}

	events, err := s.historyRepo.ListHistoryEvents(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list history events")
		return nil, fmt.Errorf("failed to list history events: %w", err)
	}
	return events, nil
}

// newHistoryEvent builds an event attributed to actingUserID. The actor's username is
// resolved best effort; a failed lookup leaves it empty.
func newHistoryEvent(ctx context.Context, users portsrepo.UserReader, eventType domain.HistoryEventType, actingUserID string) domain.HistoryEvent {
	event := domain.HistoryEvent{EventType: eventType}
	if actingUserID == "" {
		return event
	}
	event.UserID = &actingUserID
	if actor, err := users.FindUserByID(ctx, actingUserID); err == nil {
		event.Username = actor.Username
	}
	return event
}
