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
	"github.com/shopspring/decimal"
)

const currencyColumns = `currency_id, name, balance, status, created_at, last_updated_at`

type PgxCurrencyRepository struct {
	db querier
}

func newPgxCurrencyRepository(db querier) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{db: db}
}

// Ensure PgxCurrencyRepository implements portsrepo.CurrencyRepositoryFacade
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(&m.CurrencyID, &m.Name, &m.Balance, &m.Status, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

func (r *PgxCurrencyRepository) findOne(ctx context.Context, where string, arg any) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE ` + where + ` AND status = 'ACTIVE';`
	m, err := scanCurrency(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("failed to find currency: %w", err)
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

// FindCurrencyByID retrieves an active currency by its ID.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	return r.findOne(ctx, `currency_id = $1`, currencyID)
}

// FindCurrencyByName retrieves an active currency by its name.
func (r *PgxCurrencyRepository) FindCurrencyByName(ctx context.Context, name string) (*domain.Currency, error) {
	return r.findOne(ctx, `name = $1`, name)
}

// ListCurrencies retrieves all active currencies ordered by name.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE status = 'ACTIVE' ORDER BY name;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies := []models.Currency{}
	for rows.Next() {
		m, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}
	return mapping.ToDomainCurrencySlice(currencies), nil
}

// FindCurrenciesByIDsForUpdate locks the active currencies with the given IDs.
// Rows are locked in currency_id order so concurrent callers cannot deadlock.
func (r *PgxCurrencyRepository) FindCurrenciesByIDsForUpdate(ctx context.Context, currencyIDs []string) (map[string]domain.Currency, error) {
	if len(currencyIDs) == 0 {
		return map[string]domain.Currency{}, nil
	}

	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE currency_id = ANY($1) AND status = 'ACTIVE'
		ORDER BY currency_id
		FOR UPDATE;
	`
	rows, err := r.db.Query(ctx, query, currencyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock currencies: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Currency, len(currencyIDs))
	for rows.Next() {
		m, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked currency row: %w", err)
		}
		locked[m.CurrencyID] = mapping.ToDomainCurrency(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked currency rows: %w", err)
	}
	return locked, nil
}

// SaveCurrency inserts a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	query := `
		INSERT INTO currencies (currency_id, name, balance, status, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query, m.CurrencyID, m.Name, m.Balance, m.Status, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save currency %s: %w", m.Name, err)
	}
	return nil
}

// RenameCurrency changes the name of an active currency and leaves its balance alone.
func (r *PgxCurrencyRepository) RenameCurrency(ctx context.Context, currencyID, name string, updatedAt time.Time) error {
	query := `
		UPDATE currencies
		SET name = $2, last_updated_at = $3
		WHERE currency_id = $1 AND status = 'ACTIVE';
	`
	cmdTag, err := r.db.Exec(ctx, query, currencyID, name, updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, name)
		}
		return fmt.Errorf("failed to rename currency %s: %w", currencyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCurrencyNotFound
	}
	return nil
}

// UpdateCurrencyBalance overwrites the balance of a currency.
func (r *PgxCurrencyRepository) UpdateCurrencyBalance(ctx context.Context, currencyID string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE currencies SET balance = $2, last_updated_at = $3 WHERE currency_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, currencyID, balance, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update balance of currency %s: %w", currencyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCurrencyNotFound
	}
	return nil
}

// MarkCurrencyDeleted soft deletes a currency.
func (r *PgxCurrencyRepository) MarkCurrencyDeleted(ctx context.Context, currencyID string, deletedAt time.Time) error {
	query := `
		UPDATE currencies SET status = 'DELETED', last_updated_at = $2
		WHERE currency_id = $1 AND status = 'ACTIVE';
	`
	cmdTag, err := r.db.Exec(ctx, query, currencyID, deletedAt)
	if err != nil {
		return fmt.Errorf("failed to delete currency %s: %w", currencyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCurrencyNotFound
	}
	return nil
}
