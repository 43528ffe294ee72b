package services

import (
	"context"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
)

// OperationReaderSvc defines read operations for client operations
type OperationReaderSvc interface {
	// GetOperation retrieves a single operation.
	GetOperation(ctx context.Context, operationID string) (*domain.Operation, error)

	// ListOperations lists operations of a period: "shift", "3days" or "week".
	ListOperations(ctx context.Context, period string) ([]domain.Operation, error)

	// ListTradeableCurrencies lists active currencies other than the base currency.
	ListTradeableCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// OperationWriterSvc mutates balances through client operations.
type OperationWriterSvc interface {
	// CreateOperation records a buy/sell for the active shift's cashier and moves both balances atomically.
	CreateOperation(ctx context.Context, req dto.CreateOperationRequest) (*domain.Operation, error)

	// EditOperation reverses the stored effect and re-applies it with the new amount and rate.
	EditOperation(ctx context.Context, operationID string, req dto.EditOperationRequest, editorUsername string) (*domain.Operation, error)
}

// LedgerSvcFacade combines all operation-related service interfaces
type LedgerSvcFacade interface {
	OperationReaderSvc
	OperationWriterSvc
}
