package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_kiosk_app/internal/models"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const operationSelect = `
	SELECT o.operation_id, o.operation_type, o.currency_id, c.name, o.cashier_name,
	       o.amount, o.exchange_rate, o.total_in_som, o.created_at, o.edited_by
	FROM client_operations o
	JOIN currencies c ON c.currency_id = o.currency_id
`

type PgxOperationRepository struct {
	db querier
}

func newPgxOperationRepository(db querier) *PgxOperationRepository {
	return &PgxOperationRepository{db: db}
}

var _ portsrepo.OperationRepositoryFacade = (*PgxOperationRepository)(nil)

func scanOperation(row pgx.Row) (models.Operation, error) {
	var m models.Operation
	err := row.Scan(
		&m.OperationID,
		&m.OperationType,
		&m.CurrencyID,
		&m.CurrencyName,
		&m.CashierName,
		&m.Amount,
		&m.ExchangeRate,
		&m.TotalInSom,
		&m.CreatedAt,
		&m.EditedBy,
	)
	return m, err
}

func (r *PgxOperationRepository) findByID(ctx context.Context, operationID string, forUpdate bool) (*domain.Operation, error) {
	query := operationSelect + ` WHERE o.operation_id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF o`
	}
	m, err := scanOperation(r.db.QueryRow(ctx, query, operationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("operation %s: %w", operationID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find operation %s: %w", operationID, err)
	}
	d := mapping.ToDomainOperation(m)
	return &d, nil
}

// FindOperationByID retrieves an operation with its currency name.
func (r *PgxOperationRepository) FindOperationByID(ctx context.Context, operationID string) (*domain.Operation, error) {
	return r.findByID(ctx, operationID, false)
}

// FindOperationByIDForUpdate retrieves and locks an operation row.
func (r *PgxOperationRepository) FindOperationByIDForUpdate(ctx context.Context, operationID string) (*domain.Operation, error) {
	return r.findByID(ctx, operationID, true)
}

// ListOperationsSince retrieves operations created at or after from, newest first.
func (r *PgxOperationRepository) ListOperationsSince(ctx context.Context, from time.Time) ([]domain.Operation, error) {
	query := operationSelect + ` WHERE o.created_at >= $1 ORDER BY o.created_at DESC, o.operation_id DESC;`
	rows, err := r.db.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	ops := []domain.Operation{}
	for rows.Next() {
		m, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation row: %w", err)
		}
		ops = append(ops, mapping.ToDomainOperation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation rows: %w", err)
	}
	return ops, nil
}

// SaveOperation inserts a new operation.
func (r *PgxOperationRepository) SaveOperation(ctx context.Context, op domain.Operation) error {
	m := mapping.ToModelOperation(op)
	query := `
		INSERT INTO client_operations (operation_id, operation_type, currency_id, cashier_name, amount, exchange_rate, total_in_som, created_at, edited_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		m.OperationID,
		m.OperationType,
		m.CurrencyID,
		m.CashierName,
		m.Amount,
		m.ExchangeRate,
		m.TotalInSom,
		m.CreatedAt,
		m.EditedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save operation %s: %w", m.OperationID, err)
	}
	return nil
}

// UpdateOperation rewrites amount, rate, total and editor.
func (r *PgxOperationRepository) UpdateOperation(ctx context.Context, op domain.Operation) error {
	m := mapping.ToModelOperation(op)
	query := `
		UPDATE client_operations
		SET amount = $2, exchange_rate = $3, total_in_som = $4, edited_by = $5
		WHERE operation_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, m.OperationID, m.Amount, m.ExchangeRate, m.TotalInSom, m.EditedBy)
	if err != nil {
		return fmt.Errorf("failed to update operation %s: %w", m.OperationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("operation %s: %w", m.OperationID, apperrors.ErrNotFound)
	}
	return nil
}
