package dto

import (
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
type CreateCurrencyRequest struct {
	Name    string          `json:"name" binding:"required,max=50"`
	Balance decimal.Decimal `json:"balance" binding:"gte=0" swaggertype:"string" example:"0.00"`
}

// UpdateCurrencyRequest renames a currency or corrects its balance.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateCurrencyRequest struct {
	Name    *string          `json:"name" binding:"omitempty,min=1,max=50"`
	Balance *decimal.Decimal `json:"balance" binding:"omitempty,gte=0" swaggertype:"string"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID    string          `json:"currencyID"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance" swaggertype:"string"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID:    curr.CurrencyID,
		Name:          curr.Name,
		Balance:       curr.Balance.Round(2),
		CreatedAt:     curr.CreatedAt,
		LastUpdatedAt: curr.LastUpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
