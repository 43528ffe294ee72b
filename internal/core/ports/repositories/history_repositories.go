package repositories

import (
	"context"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// HistoryReader lists audit events.
type HistoryReader interface {
	// ListHistoryEvents returns events matching filter, newest first.
	ListHistoryEvents(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEvent, error)
}

// HistoryWriter appends audit events.
type HistoryWriter interface {
	SaveHistoryEvent(ctx context.Context, event domain.HistoryEvent) error
}

// HistoryRepositoryFacade combines history reads and writes.
type HistoryRepositoryFacade interface {
	HistoryReader
	HistoryWriter
}
