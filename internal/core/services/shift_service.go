package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils/accounting"
)

// shiftStatsConcurrency bounds parallel aggregate queries for the shift history.
const shiftStatsConcurrency = 4

type shiftService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	shiftRepo     portsrepo.ShiftReader
	userRepo      portsrepo.UserReader
	analyticsRepo portsrepo.AnalyticsReader
	history       portssvc.HistoryRecorder
}

// NewShiftService creates a new shift service.
func NewShiftService(
	txManager portsrepo.TransactionManager,
	shiftRepo portsrepo.ShiftReader,
	userRepo portsrepo.UserReader,
	analyticsRepo portsrepo.AnalyticsReader,
	history portssvc.HistoryRecorder,
	options ...ServiceOption,
) portssvc.ShiftSvcFacade {
	return &shiftService{
		BaseService:   newBaseService(options),
		txManager:     txManager,
		shiftRepo:     shiftRepo,
		userRepo:      userRepo,
		analyticsRepo: analyticsRepo,
		history:       history,
	}
}

var _ portssvc.ShiftSvcFacade = (*shiftService)(nil)

func validateCloseShift(req dto.CloseShiftRequest) error {
	seen := make(map[string]struct{}, len(req.Balances))
	for _, entry := range req.Balances {
		if entry.CurrencyID == "" {
			return apperrors.NewValidationError("currency_id", "is required")
		}
		if _, dup := seen[entry.CurrencyID]; dup {
			return apperrors.NewValidationError("balances", fmt.Sprintf("currency %s is listed more than once", entry.CurrencyID))
		}
		seen[entry.CurrencyID] = struct{}{}
		if err := accounting.ValidateLeftover(entry.Leftover); err != nil {
			return err
		}
	}
	return nil
}

// CloseShift reconciles the counted leftovers, closes the open shift and opens the next one.
// With no open shift it only opens a new one.
func (s *shiftService) CloseShift(ctx context.Context, req dto.CloseShiftRequest, closedByUserID string) (string, error) {
	if err := validateCloseShift(req); err != nil {
		return "", err
	}

	var (
		newShiftID string
		closedID   string
		changes    []domain.BalanceChange
	)
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		closer, err := tx.Users().FindUserByID(ctx, closedByUserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("failed to load closing user: %w", err)
		}

		now := s.Now()
		open, err := tx.Shifts().FindOpenShiftForUpdate(ctx)
		switch {
		case err == nil:
			changes, err = s.reconcile(ctx, tx, req.Balances)
			if err != nil {
				return err
			}
			note := fmt.Sprintf("Closed by user: %s", closer.Username)
			if err := tx.Shifts().CloseShift(ctx, open.ShiftID, now, note, changes); err != nil {
				return fmt.Errorf("failed to close shift %s: %w", open.ShiftID, err)
			}
			closedID = open.ShiftID
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			return fmt.Errorf("failed to lock active shift: %w", err)
		}

		userID := closer.UserID
		next := domain.Shift{
			ShiftID:         uuid.NewString(),
			UserID:          &userID,
			StartTime:       now,
			ChangedBalances: []domain.BalanceChange{},
		}
		if err := tx.Shifts().SaveShift(ctx, next); err != nil {
			return err
		}
		newShiftID = next.ShiftID
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Shift close rejected", slog.String("closed_by", closedByUserID), slog.String("error", err.Error()))
		return "", err
	}

	s.LogInfo(ctx, "Shift closed",
		slog.String("closed_shift_id", closedID),
		slog.String("new_shift_id", newShiftID),
		slog.Int("changed_balances", len(changes)))
	return newShiftID, nil
}

// reconcile overwrites balances that differ from the counted leftovers, in submitted order.
func (s *shiftService) reconcile(ctx context.Context, tx portsrepo.LedgerTx, entries []dto.ShiftBalanceEntry) ([]domain.BalanceChange, error) {
	changes := []domain.BalanceChange{}
	if len(entries) == 0 {
		return changes, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.CurrencyID
	}
	locked, err := tx.Currencies().FindCurrenciesByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock currencies: %w", err)
	}

	now := s.Now()
	for _, e := range entries {
		curr, ok := locked[e.CurrencyID]
		if !ok {
			s.LogDebug(ctx, "Skipping unknown currency at shift close", slog.String("currency_id", e.CurrencyID))
			continue
		}
		if curr.Balance.Equal(e.Leftover) {
			continue
		}
		if err := tx.Currencies().UpdateCurrencyBalance(ctx, curr.CurrencyID, e.Leftover, now); err != nil {
			return nil, fmt.Errorf("failed to update %s balance: %w", curr.Name, err)
		}
		changes = append(changes, domain.BalanceChange{
			CurrencyID:   curr.CurrencyID,
			CurrencyName: curr.Name,
			OldBalance:   curr.Balance,
			NewBalance:   e.Leftover,
		})
	}
	return changes, nil
}

// ReassignCashier hands the active shift to another user.
func (s *shiftService) ReassignCashier(ctx context.Context, userID string, actingUserID string) (*domain.CashierChange, error) {
	var change domain.CashierChange
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		open, err := tx.Shifts().FindOpenShiftForUpdate(ctx)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrNoActiveShift
			}
			return fmt.Errorf("failed to lock active shift: %w", err)
		}
		newUser, err := tx.Users().FindUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		if open.HasCashier() {
			oldUser, err := tx.Users().FindUserByID(ctx, *open.UserID)
			switch {
			case err == nil:
				change.OldUser = oldUser
			case errors.Is(err, apperrors.ErrNotFound):
				change.OldUser = &domain.User{UserID: *open.UserID, Username: open.Username}
			default:
				return fmt.Errorf("failed to load current cashier: %w", err)
			}
		}

		if err := tx.Shifts().UpdateShiftUser(ctx, open.ShiftID, newUser.UserID); err != nil {
			return fmt.Errorf("failed to reassign shift %s: %w", open.ShiftID, err)
		}
		change.ShiftID = open.ShiftID
		change.NewUser = *newUser
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Cashier reassignment rejected", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	s.recordReassignment(ctx, actingUserID, change.NewUser)
	s.LogInfo(ctx, "Cashier reassigned",
		slog.String("shift_id", change.ShiftID),
		slog.String("new_cashier", change.NewUser.Username))
	return &change, nil
}

func (s *shiftService) recordReassignment(ctx context.Context, actingUserID string, target domain.User) {
	event := newHistoryEvent(ctx, s.userRepo, domain.EventUpdateUser, actingUserID)
	event.TargetUserID = &target.UserID
	event.TargetUsername = target.Username
	s.history.Record(ctx, event)
}

// GetActiveShift returns the open shift and its cashier, if any.
func (s *shiftService) GetActiveShift(ctx context.Context) (*domain.ShiftInfo, error) {
	open, err := s.shiftRepo.FindOpenShift(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoActiveShift
		}
		s.LogError(ctx, err, "Failed to load active shift")
		return nil, fmt.Errorf("failed to load active shift: %w", err)
	}

	info := &domain.ShiftInfo{ShiftID: open.ShiftID, StartTime: open.StartTime}
	if !open.HasCashier() {
		return info, nil
	}
	cashier, err := s.userRepo.FindUserByID(ctx, *open.UserID)
	switch {
	case err == nil:
		info.Cashier = cashier
	case errors.Is(err, apperrors.ErrNotFound):
		info.Cashier = &domain.User{UserID: *open.UserID, Username: open.Username}
	default:
		return nil, fmt.Errorf("failed to load cashier: %w", err)
	}
	return info, nil
}

// ListShiftHistory returns shifts newest first with operation counts and overall profit.
func (s *shiftService) ListShiftHistory(ctx context.Context, limit, offset int) ([]domain.ShiftSummary, error) {
	shifts, err := s.shiftRepo.ListShifts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list shifts")
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	summaries := make([]domain.ShiftSummary, len(shifts))
	now := s.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(shiftStatsConcurrency)
	for i := range shifts {
		g.Go(func() error {
			shift := shifts[i]
			end := now
			if shift.EndTime != nil {
				end = *shift.EndTime
			}
			stats, err := s.analyticsRepo.GetTradeStats(gctx, domain.TradeFilter{From: shift.StartTime, To: end})
			if err != nil {
				return fmt.Errorf("failed to aggregate shift %s: %w", shift.ShiftID, err)
			}
			summaries[i] = domain.ShiftSummary{
				Shift:           shift,
				OperationsCount: stats.BuyCount + stats.SellCount,
				OverallProfit:   accounting.Profit(*stats),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build shift history")
		return nil, err
	}
	return summaries, nil
}
