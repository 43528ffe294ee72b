package services

import (
	"context"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// HistoryRecorder appends audit events without blocking the caller.
type HistoryRecorder interface {
	// Record queues an event. Failures are logged and never returned.
	Record(ctx context.Context, event domain.HistoryEvent)
}

// HistorySvcFacade combines recording and listing of audit events.
type HistorySvcFacade interface {
	HistoryRecorder

	// ListHistory returns events matching filter, newest first.
	ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEvent, error)

	// Close stops accepting events and waits until queued ones are written.
	Close()
}
