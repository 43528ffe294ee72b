package services

import (
	"context"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
)

// ShiftReaderSvc defines read operations for shifts
type ShiftReaderSvc interface {
	// GetActiveShift returns the open shift or apperrors.ErrNoActiveShift.
	GetActiveShift(ctx context.Context) (*domain.ShiftInfo, error)

	// ListShiftHistory returns shifts newest first with their operation counts and profit.
	ListShiftHistory(ctx context.Context, limit, offset int) ([]domain.ShiftSummary, error)
}

// ShiftWriterSvc changes shift state.
type ShiftWriterSvc interface {
	// CloseShift reconciles counted balances, closes the open shift and opens a new one owned by closedByUserID.
	// It returns the new shift ID.
	CloseShift(ctx context.Context, req dto.CloseShiftRequest, closedByUserID string) (string, error)

	// ReassignCashier hands the active shift to another user.
	ReassignCashier(ctx context.Context, userID string, actingUserID string) (*domain.CashierChange, error)
}

// ShiftSvcFacade combines all shift-related service interfaces
type ShiftSvcFacade interface {
	ShiftReaderSvc
	ShiftWriterSvc
}
