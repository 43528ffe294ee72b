package dto

import (
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateOperationRequest defines the data needed to record a buy or sell.
type CreateOperationRequest struct {
	OperationType domain.OperationType `json:"operationType" binding:"required,oneof=buy sell"`
	CurrencyID    string               `json:"currencyID" binding:"required"`
	Amount        decimal.Decimal      `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"100.00"`
	ExchangeRate  decimal.Decimal      `json:"exchangeRate" binding:"required,gt=0" swaggertype:"string" example:"87.5500"`
}

// EditOperationRequest defines the editable fields of an operation. The type cannot change.
type EditOperationRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"100.00"`
	ExchangeRate decimal.Decimal `json:"exchangeRate" binding:"required,gt=0" swaggertype:"string" example:"87.5500"`
}

// ListOperationsParams defines query parameters for listing operations.
type ListOperationsParams struct {
	Period string `form:"period,default=shift" binding:"oneof=shift 3days week"`
}

// OperationResponse defines the data returned for an operation.
type OperationResponse struct {
	OperationID   string               `json:"operationID"`
	OperationType domain.OperationType `json:"operationType"`
	CurrencyID    string               `json:"currencyID"`
	CurrencyName  string               `json:"currencyName"`
	CashierName   string               `json:"cashierName"`
	Amount        decimal.Decimal      `json:"amount" swaggertype:"string"`
	ExchangeRate  decimal.Decimal      `json:"exchangeRate" swaggertype:"string"`
	TotalInSom    decimal.Decimal      `json:"totalInSom" swaggertype:"string"`
	CreatedAt     time.Time            `json:"createdAt"`
	Edited        bool                 `json:"edited"`
	EditedBy      string               `json:"editedBy,omitempty"`
}

// ToOperationResponse converts a domain.Operation to OperationResponse DTO
func ToOperationResponse(op *domain.Operation) OperationResponse {
	return OperationResponse{
		OperationID:   op.OperationID,
		OperationType: op.OperationType,
		CurrencyID:    op.CurrencyID,
		CurrencyName:  op.CurrencyName,
		CashierName:   op.CashierName,
		Amount:        op.Amount.Round(2),
		ExchangeRate:  op.ExchangeRate.Round(4),
		TotalInSom:    op.TotalInBase.Round(2),
		CreatedAt:     op.CreatedAt,
		Edited:        op.Edited(),
		EditedBy:      op.EditedBy,
	}
}

// ListOperationsResponse wraps a list of operations.
type ListOperationsResponse struct {
	Operations []OperationResponse `json:"operations"`
}

// ToListOperationsResponse converts a slice of domain.Operation to ListOperationsResponse DTO
func ToListOperationsResponse(ops []domain.Operation) ListOperationsResponse {
	res := make([]OperationResponse, len(ops))
	for i := range ops {
		res[i] = ToOperationResponse(&ops[i])
	}
	return ListOperationsResponse{Operations: res}
}
