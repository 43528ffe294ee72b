package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils/accounting"
)

// ledgerService moves currency balances through client operations.
// Every mutation runs in one transaction with both currency rows locked.
type ledgerService struct {
	BaseService
	txManager        portsrepo.TransactionManager
	operationRepo    portsrepo.OperationReader
	currencyRepo     portsrepo.CurrencyReader
	shiftRepo        portsrepo.ShiftReader
	baseCurrencyName string
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	operationRepo portsrepo.OperationReader,
	currencyRepo portsrepo.CurrencyReader,
	shiftRepo portsrepo.ShiftReader,
	baseCurrencyName string,
	options ...ServiceOption,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService:      newBaseService(options),
		txManager:        txManager,
		operationRepo:    operationRepo,
		currencyRepo:     currencyRepo,
		shiftRepo:        shiftRepo,
		baseCurrencyName: baseCurrencyName,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// lockedPair is the base and traded currency of one operation, locked for the transaction.
type lockedPair struct {
	base   domain.Currency
	traded domain.Currency
}

func (p lockedPair) balances() accounting.Balances {
	return accounting.Balances{Base: p.base.Balance, Traded: p.traded.Balance}
}

func validateOperationInput(amountErr, rateErr error) error {
	if amountErr != nil {
		return amountErr
	}
	return rateErr
}

// activeCashier returns the open shift and the username operations are stamped with.
func (s *ledgerService) activeCashier(ctx context.Context, tx portsrepo.LedgerTx) (*domain.Shift, string, error) {
	shift, err := tx.Shifts().FindOpenShift(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrNoActiveShift
		}
		return nil, "", fmt.Errorf("failed to load active shift: %w", err)
	}
	if !shift.HasCashier() || shift.Username == "" {
		return nil, "", apperrors.ErrNoActiveShift
	}
	return shift, shift.Username, nil
}

// lockPair finds the base currency by name and locks it together with the traded currency.
func (s *ledgerService) lockPair(ctx context.Context, tx portsrepo.LedgerTx, currencyID string) (*lockedPair, error) {
	base, err := tx.Currencies().FindCurrencyByName(ctx, s.baseCurrencyName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrBaseCurrencyMissing
		}
		return nil, fmt.Errorf("failed to load base currency: %w", err)
	}
	if currencyID == base.CurrencyID {
		return nil, apperrors.NewValidationError("currency_id", "the base currency cannot be traded")
	}

	locked, err := tx.Currencies().FindCurrenciesByIDsForUpdate(ctx, []string{base.CurrencyID, currencyID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock currencies: %w", err)
	}
	lockedBase, ok := locked[base.CurrencyID]
	if !ok {
		return nil, apperrors.ErrBaseCurrencyMissing
	}
	lockedTraded, ok := locked[currencyID]
	if !ok {
		return nil, apperrors.ErrCurrencyNotFound
	}
	return &lockedPair{base: lockedBase, traded: lockedTraded}, nil
}

func (s *ledgerService) writeBalances(ctx context.Context, tx portsrepo.LedgerTx, pair *lockedPair, b accounting.Balances) error {
	now := s.Now()
	if err := tx.Currencies().UpdateCurrencyBalance(ctx, pair.base.CurrencyID, b.Base, now); err != nil {
		return fmt.Errorf("failed to update %s balance: %w", pair.base.Name, err)
	}
	if err := tx.Currencies().UpdateCurrencyBalance(ctx, pair.traded.CurrencyID, b.Traded, now); err != nil {
		return fmt.Errorf("failed to update %s balance: %w", pair.traded.Name, err)
	}
	return nil
}

// CreateOperation records a buy/sell and moves both balances atomically.
func (s *ledgerService) CreateOperation(ctx context.Context, req dto.CreateOperationRequest) (*domain.Operation, error) {
	if !req.OperationType.Valid() {
		return nil, apperrors.NewValidationError("operation_type", "must be 'buy' or 'sell'")
	}
	if req.CurrencyID == "" {
		return nil, apperrors.NewValidationError("currency_id", "is required")
	}
	if err := validateOperationInput(accounting.ValidateAmount(req.Amount), accounting.ValidateRate(req.ExchangeRate)); err != nil {
		return nil, err
	}

	total := accounting.CalculateTotal(req.Amount, req.ExchangeRate)
	if err := accounting.ValidateTotal(total); err != nil {
		return nil, err
	}
	var created domain.Operation

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, cashierName, err := s.activeCashier(ctx, tx)
		if err != nil {
			return err
		}
		pair, err := s.lockPair(ctx, tx, req.CurrencyID)
		if err != nil {
			return err
		}

		next, err := accounting.ApplyOperation(req.OperationType, pair.balances(), req.Amount, total, pair.base.Name, pair.traded.Name)
		if err != nil {
			return err
		}
		if err := s.writeBalances(ctx, tx, pair, next); err != nil {
			return err
		}

		created = domain.Operation{
			OperationID:   uuid.NewString(),
			OperationType: req.OperationType,
			CurrencyID:    pair.traded.CurrencyID,
			CurrencyName:  pair.traded.Name,
			CashierName:   cashierName,
			Amount:        req.Amount,
			ExchangeRate:  req.ExchangeRate,
			TotalInBase:   total,
			CreatedAt:     s.Now(),
		}
		return tx.Operations().SaveOperation(ctx, created)
	})
	if err != nil {
		s.LogWarn(ctx, "Operation rejected",
			slog.String("operation_type", string(req.OperationType)),
			slog.String("currency_id", req.CurrencyID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Operation created",
		slog.String("operation_id", created.OperationID),
		slog.String("operation_type", string(created.OperationType)),
		slog.String("currency", created.CurrencyName),
		slog.String("amount", created.Amount.String()),
		slog.String("total", created.TotalInBase.String()))
	return &created, nil
}

// EditOperation reverses the stored effect and re-applies it with the new amount and rate.
// The operation type never changes. Nothing is written unless the whole edit succeeds.
func (s *ledgerService) EditOperation(ctx context.Context, operationID string, req dto.EditOperationRequest, editorUsername string) (*domain.Operation, error) {
	if err := validateOperationInput(accounting.ValidateAmount(req.Amount), accounting.ValidateRate(req.ExchangeRate)); err != nil {
		return nil, err
	}
	total := accounting.CalculateTotal(req.Amount, req.ExchangeRate)
	if err := accounting.ValidateTotal(total); err != nil {
		return nil, err
	}

	var edited domain.Operation
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		op, err := tx.Operations().FindOperationByIDForUpdate(ctx, operationID)
		if err != nil {
			return err
		}
		pair, err := s.lockPair(ctx, tx, op.CurrencyID)
		if err != nil {
			return err
		}

		before := pair.balances()
		reversed := accounting.ReverseOperation(*op, before)

		next, err := accounting.ApplyOperation(op.OperationType, reversed, req.Amount, total, pair.base.Name, pair.traded.Name)
		if err != nil {
			return err
		}
		if err := accounting.CheckNonNegative(before, next, pair.base.Name, pair.traded.Name); err != nil {
			return err
		}
		if err := s.writeBalances(ctx, tx, pair, next); err != nil {
			return err
		}

		edited = *op
		edited.Amount = req.Amount
		edited.ExchangeRate = req.ExchangeRate
		edited.TotalInBase = total
		edited.EditedBy = editorUsername
		return tx.Operations().UpdateOperation(ctx, edited)
	})
	if err != nil {
		s.LogWarn(ctx, "Operation edit rejected", slog.String("operation_id", operationID), slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Operation edited",
		slog.String("operation_id", edited.OperationID),
		slog.String("edited_by", editorUsername),
		slog.String("amount", edited.Amount.String()),
		slog.String("total", edited.TotalInBase.String()))
	return &edited, nil
}

// GetOperation retrieves a single operation.
func (s *ledgerService) GetOperation(ctx context.Context, operationID string) (*domain.Operation, error) {
	op, err := s.operationRepo.FindOperationByID(ctx, operationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get operation", slog.String("operation_id", operationID))
		}
		return nil, err
	}
	return op, nil
}

// ListOperations lists operations of the period. "shift" starts at the open shift,
// or at midnight when no shift is open.
func (s *ledgerService) ListOperations(ctx context.Context, period string) ([]domain.Operation, error) {
	now := s.Now()
	var from time.Time
	switch period {
	case PeriodShift, "":
		shift, err := s.shiftRepo.FindOpenShift(ctx)
		switch {
		case err == nil:
			from = shift.StartTime
		case errors.Is(err, apperrors.ErrNotFound):
			from = startOfDay(now)
		default:
			return nil, fmt.Errorf("failed to load active shift: %w", err)
		}
	case Period3Days, PeriodWeek:
		from, _ = rollingStart(period, now)
	default:
		return nil, invalidPeriod(period, PeriodShift, Period3Days, PeriodWeek)
	}

	ops, err := s.operationRepo.ListOperationsSince(ctx, from)
	if err != nil {
		s.LogError(ctx, err, "Failed to list operations", slog.String("period", period))
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	return ops, nil
}

// ListTradeableCurrencies lists active currencies other than the base currency.
func (s *ledgerService) ListTradeableCurrencies(ctx context.Context) ([]domain.Currency, error) {
	all, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	tradeable := make([]domain.Currency, 0, len(all))
	for _, c := range all {
		if !c.IsBase(s.baseCurrencyName) {
			tradeable = append(tradeable, c)
		}
	}
	return tradeable, nil
}
