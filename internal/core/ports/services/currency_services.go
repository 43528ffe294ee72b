package services

import (
	"context"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByID retrieves a specific active currency.
	GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// ListCurrencies retrieves all active currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// UpdateCurrency renames a currency or overrides its balance.
	UpdateCurrency(ctx context.Context, currencyID string, req dto.UpdateCurrencyRequest, requestingUserID string) (*domain.Currency, error)

	// DeleteCurrency soft deletes a currency.
	DeleteCurrency(ctx context.Context, currencyID string, requestingUserID string) error
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
