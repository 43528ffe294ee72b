package pgsql

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so every repository
// runs unchanged inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// TxManager implements portsrepo.TransactionManager on a pgx pool.
type TxManager struct {
	BaseRepository
}

func newTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// WithinTransaction runs fn in a transaction, committing on success.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) (err error) {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	// rollback must run even when the request context is already cancelled
	cleanupCtx := context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(cleanupCtx, tx)
			panic(p)
		}
	}()

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		if rbErr := m.Rollback(cleanupCtx, tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}
	return m.Commit(ctx, tx)
}

// pgxLedgerTx hands out repositories bound to one pgx.Tx.
type pgxLedgerTx struct {
	tx pgx.Tx
}

func (t *pgxLedgerTx) Currencies() portsrepo.CurrencyRepositoryFacade {
	return newPgxCurrencyRepository(t.tx)
}

func (t *pgxLedgerTx) Operations() portsrepo.OperationRepositoryFacade {
	return newPgxOperationRepository(t.tx)
}

func (t *pgxLedgerTx) Shifts() portsrepo.ShiftRepositoryFacade {
	return newPgxShiftRepository(t.tx)
}

func (t *pgxLedgerTx) Users() portsrepo.UserReader {
	return newPgxUserRepository(t.tx)
}
