package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyReader defines read operations for currency data.
// Deleted currencies are invisible to every method.
type CurrencyReader interface {
	// FindCurrencyByID retrieves an active currency by its ID.
	FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// FindCurrencyByName retrieves an active currency by its unique name.
	FindCurrencyByName(ctx context.Context, name string) (*domain.Currency, error)

	// ListCurrencies retrieves all active currencies ordered by name.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyLocker locks currency rows for the lifetime of the surrounding transaction.
type CurrencyLocker interface {
	// FindCurrenciesByIDsForUpdate locks the active currencies with the given IDs in ID order.
	// Unknown or deleted IDs are omitted from the result.
	FindCurrenciesByIDsForUpdate(ctx context.Context, currencyIDs []string) (map[string]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// RenameCurrency changes the name of an active currency and leaves its balance alone.
	RenameCurrency(ctx context.Context, currencyID, name string, updatedAt time.Time) error

	// UpdateCurrencyBalance overwrites the balance of a currency.
	UpdateCurrencyBalance(ctx context.Context, currencyID string, balance decimal.Decimal, updatedAt time.Time) error

	// MarkCurrencyDeleted soft deletes a currency.
	MarkCurrencyDeleted(ctx context.Context, currencyID string, deletedAt time.Time) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
// This is a facade for clients that need access to all operations
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyLocker
	CurrencyWriter
}
