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

const shiftSelect = `
	SELECT s.shift_id, s.user_id, u.username, s.start_time, s.end_time, s.note, s.changed_balances
	FROM shifts s
	LEFT JOIN users u ON u.user_id = s.user_id
`

type PgxShiftRepository struct {
	db querier
}

func newPgxShiftRepository(db querier) *PgxShiftRepository {
	return &PgxShiftRepository{db: db}
}

var _ portsrepo.ShiftRepositoryFacade = (*PgxShiftRepository)(nil)

func scanShift(row pgx.Row) (models.Shift, error) {
	var m models.Shift
	err := row.Scan(&m.ShiftID, &m.UserID, &m.Username, &m.StartTime, &m.EndTime, &m.Note, &m.ChangedBalances)
	return m, err
}

func (r *PgxShiftRepository) findOpen(ctx context.Context, forUpdate bool) (*domain.Shift, error) {
	query := shiftSelect + ` WHERE s.end_time IS NULL`
	if forUpdate {
		query += ` FOR UPDATE OF s`
	}
	m, err := scanShift(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("open shift: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find open shift: %w", err)
	}
	d := mapping.ToDomainShift(m)
	return &d, nil
}

// FindOpenShift returns the shift with no end time.
func (r *PgxShiftRepository) FindOpenShift(ctx context.Context) (*domain.Shift, error) {
	return r.findOpen(ctx, false)
}

// FindOpenShiftForUpdate returns the open shift and locks its row.
func (r *PgxShiftRepository) FindOpenShiftForUpdate(ctx context.Context) (*domain.Shift, error) {
	return r.findOpen(ctx, true)
}

// ListShifts returns shifts newest first.
func (r *PgxShiftRepository) ListShifts(ctx context.Context, limit, offset int) ([]domain.Shift, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := shiftSelect + ` ORDER BY s.start_time DESC, s.shift_id DESC LIMIT $1 OFFSET $2;`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	shifts := []domain.Shift{}
	for rows.Next() {
		m, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift row: %w", err)
		}
		shifts = append(shifts, mapping.ToDomainShift(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift rows: %w", err)
	}
	return shifts, nil
}

// SaveShift inserts a new open shift. The partial unique index on open shifts
// turns a concurrent second insert into apperrors.ErrConflict.
func (r *PgxShiftRepository) SaveShift(ctx context.Context, shift domain.Shift) error {
	query := `
		INSERT INTO shifts (shift_id, user_id, start_time, end_time, note, changed_balances)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		shift.ShiftID,
		shift.UserID,
		shift.StartTime,
		shift.EndTime,
		shift.Note,
		mapping.ToModelBalanceChanges(shift.ChangedBalances),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: another shift is already open", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to save shift %s: %w", shift.ShiftID, err)
	}
	return nil
}

// CloseShift sets end time, note and the reconciled balance changes.
func (r *PgxShiftRepository) CloseShift(ctx context.Context, shiftID string, endTime time.Time, note string, changes []domain.BalanceChange) error {
	query := `
		UPDATE shifts
		SET end_time = $2, note = $3, changed_balances = $4
		WHERE shift_id = $1 AND end_time IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, shiftID, endTime, note, mapping.ToModelBalanceChanges(changes))
	if err != nil {
		return fmt.Errorf("failed to close shift %s: %w", shiftID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: shift %s is no longer open", apperrors.ErrConflict, shiftID)
	}
	return nil
}

// UpdateShiftUser assigns a different cashier to a shift.
func (r *PgxShiftRepository) UpdateShiftUser(ctx context.Context, shiftID string, userID string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE shifts SET user_id = $2 WHERE shift_id = $1;`, shiftID, userID)
	if err != nil {
		return fmt.Errorf("failed to update cashier of shift %s: %w", shiftID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("shift %s: %w", shiftID, apperrors.ErrNotFound)
	}
	return nil
}
