package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// ShiftReader defines read operations for shifts.
type ShiftReader interface {
	// FindOpenShift returns the shift with no end time, or apperrors.ErrNotFound.
	FindOpenShift(ctx context.Context) (*domain.Shift, error)

	// FindOpenShiftForUpdate is FindOpenShift with a row lock.
	FindOpenShiftForUpdate(ctx context.Context) (*domain.Shift, error)

	// ListShifts returns shifts newest first.
	ListShifts(ctx context.Context, limit, offset int) ([]domain.Shift, error)
}

// ShiftWriter defines write operations for shifts.
type ShiftWriter interface {
	// SaveShift inserts a new open shift. A second open shift yields apperrors.ErrConflict.
	SaveShift(ctx context.Context, shift domain.Shift) error

	// CloseShift sets end time, note and the reconciled balance changes.
	CloseShift(ctx context.Context, shiftID string, endTime time.Time, note string, changes []domain.BalanceChange) error

	// UpdateShiftUser assigns a different cashier to a shift.
	UpdateShiftUser(ctx context.Context, shiftID string, userID string) error
}

// ShiftRepositoryFacade combines all shift-related repository interfaces
type ShiftRepositoryFacade interface {
	ShiftReader
	ShiftWriter
}
