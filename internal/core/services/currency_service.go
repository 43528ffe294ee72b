package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils/accounting"
)

type currencyService struct {
	BaseService
	txManager        portsrepo.TransactionManager
	currencyRepo     portsrepo.CurrencyRepositoryFacade
	userRepo         portsrepo.UserReader
	history          portssvc.HistoryRecorder
	baseCurrencyName string
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(
	txManager portsrepo.TransactionManager,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	userRepo portsrepo.UserReader,
	history portssvc.HistoryRecorder,
	baseCurrencyName string,
	options ...ServiceOption,
) portssvc.CurrencySvcFacade {
	return &currencyService{
		BaseService:      newBaseService(options),
		txManager:        txManager,
		currencyRepo:     currencyRepo,
		userRepo:         userRepo,
		history:          history,
		baseCurrencyName: baseCurrencyName,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func validateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return apperrors.NewValidationError("balance", "must not be negative")
	}
	if !accounting.FitsScale(balance, accounting.AmountScale) {
		return apperrors.NewValidationError("balance", "must have at most 2 decimal places")
	}
	if balance.GreaterThanOrEqual(accounting.MaxBalance) {
		return apperrors.NewValidationError("balance", "is too large")
	}
	return nil
}

// ensureNameFree returns ErrDuplicate when another active currency already uses name.
func ensureNameFree(ctx context.Context, reader portsrepo.CurrencyReader, name, exceptID string) error {
	existing, err := reader.FindCurrencyByName(ctx, name)
	switch {
	case err == nil:
		if existing.CurrencyID != exceptID {
			return fmt.Errorf("currency '%s': %w", name, apperrors.ErrDuplicate)
		}
		return nil
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check currency name: %w", err)
	}
}

func (s *currencyService) record(ctx context.Context, eventType domain.HistoryEventType, actingUserID string, c *domain.Currency) {
	event := newHistoryEvent(ctx, s.userRepo, eventType, actingUserID)
	currencyID := c.CurrencyID
	event.CurrencyID = &currencyID
	event.CurrencyName = c.Name
	s.history.Record(ctx, event)
}

// CreateCurrency persists a new currency with an opening balance.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}
	if err := validateBalance(req.Balance); err != nil {
		return nil, err
	}
	if err := ensureNameFree(ctx, s.currencyRepo, name, ""); err != nil {
		return nil, err
	}

	now := s.Now()
	currency := domain.Currency{
		CurrencyID: uuid.NewString(),
		Name:       name,
		Balance:    req.Balance,
		Status:     domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save currency", slog.String("name", name))
		}
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	s.record(ctx, domain.EventCreateCurrency, creatorUserID, &currency)
	s.LogInfo(ctx, "Currency created",
		slog.String("currency_id", currency.CurrencyID),
		slog.String("name", currency.Name))
	return &currency, nil
}

// GetCurrencyByID retrieves a specific active currency.
func (s *currencyService) GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		s.LogError(ctx, err, "Failed to get currency", slog.String("currency_id", currencyID))
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all active currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// UpdateCurrency renames a currency or overrides its balance. The base currency cannot be renamed.
// The row is locked for the whole update and the balance is written only when req.Balance is set.
func (s *currencyService) UpdateCurrency(ctx context.Context, currencyID string, req dto.UpdateCurrencyRequest, requestingUserID string) (*domain.Currency, error) {
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "must not be empty")
		}
	}
	if req.Balance != nil {
		if err := validateBalance(*req.Balance); err != nil {
			return nil, err
		}
	}

	var updated domain.Currency
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		locked, err := tx.Currencies().FindCurrenciesByIDsForUpdate(ctx, []string{currencyID})
		if err != nil {
			return fmt.Errorf("failed to lock currency: %w", err)
		}
		currency, ok := locked[currencyID]
		if !ok {
			return apperrors.ErrCurrencyNotFound
		}
		now := s.Now()

		if name != "" && name != currency.Name {
			if currency.IsBase(s.baseCurrencyName) {
				return apperrors.NewValidationError("name", "the base currency cannot be renamed")
			}
			if err := ensureNameFree(ctx, tx.Currencies(), name, currencyID); err != nil {
				return err
			}
			if err := tx.Currencies().RenameCurrency(ctx, currencyID, name, now); err != nil {
				return err
			}
			currency.Name = name
		}
		if req.Balance != nil {
			if err := tx.Currencies().UpdateCurrencyBalance(ctx, currencyID, *req.Balance, now); err != nil {
				return err
			}
			currency.Balance = *req.Balance
		}
		currency.LastUpdatedAt = now
		updated = currency
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to update currency", slog.String("currency_id", currencyID))
			return nil, fmt.Errorf("failed to update currency: %w", err)
		}
		return nil, err
	}

	s.record(ctx, domain.EventUpdateCurrency, requestingUserID, &updated)
	s.LogInfo(ctx, "Currency updated",
		slog.String("currency_id", updated.CurrencyID),
		slog.String("name", updated.Name),
		slog.String("balance", updated.Balance.String()))
	return &updated, nil
}

// DeleteCurrency soft deletes a currency. Its operations keep referencing it.
func (s *currencyService) DeleteCurrency(ctx context.Context, currencyID string, requestingUserID string) error {
	currency, err := s.GetCurrencyByID(ctx, currencyID)
	if err != nil {
		return err
	}
	if currency.IsBase(s.baseCurrencyName) {
		return apperrors.NewValidationError("currency_id", "the base currency cannot be deleted")
	}

	if err := s.currencyRepo.MarkCurrencyDeleted(ctx, currencyID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete currency", slog.String("currency_id", currencyID))
		return fmt.Errorf("failed to delete currency: %w", err)
	}

	s.record(ctx, domain.EventDeleteCurrency, requestingUserID, currency)
	s.LogInfo(ctx, "Currency deleted", slog.String("currency_id", currencyID), slog.String("name", currency.Name))
	return nil
}
