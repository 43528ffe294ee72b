package pgsql

import (
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pool-backed repositories and the transaction manager.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:  newPgxCurrencyRepository(dbPool),
		OperationRepo: newPgxOperationRepository(dbPool),
		ShiftRepo:     newPgxShiftRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		HistoryRepo:   newPgxHistoryRepository(dbPool),
		AnalyticsRepo: newPgxAnalyticsRepository(dbPool),
		TxManager:     newTxManager(dbPool),
	}
}
