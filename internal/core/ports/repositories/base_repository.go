package repositories

import (
	"context"
)

// LedgerTx exposes repositories bound to a single database transaction.
// Rows locked through it stay locked until the transaction ends.
type LedgerTx interface {
	Currencies() CurrencyRepositoryFacade
	Operations() OperationRepositoryFacade
	Shifts() ShiftRepositoryFacade
	Users() UserReader
}

// TransactionManager runs a unit of work inside one database transaction.
type TransactionManager interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	// The error returned by fn is returned unchanged.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
