package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// OperationReader defines read operations for client operations.
type OperationReader interface {
	// FindOperationByID retrieves an operation with its currency name.
	FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error)

	// FindOperationByIDForUpdate retrieves and locks an operation row.
	FindOperationByIDForUpdate(ctx context.Context, operationID string) (*domain.Operation, error)

	// ListOperationsSince retrieves operations created at or after from, newest first.
	ListOperationsSince(ctx context.Context, from time.Time) ([]domain.Operation, error)
}

// OperationWriter defines write operations for client operations.
type OperationWriter interface {
	// SaveOperation persists a new operation.
	SaveOperation(ctx context.Context, op domain.Operation) error

	// UpdateOperation rewrites amount, exchange rate, total and editor of an operation.
	UpdateOperation(ctx context.Context, op domain.Operation) error
}

// OperationRepositoryFacade combines all operation-related repository interfaces
type OperationRepositoryFacade interface {
	OperationReader
	OperationWriter
}
