package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is a row of client_operations joined with the currency name.
type Operation struct {
	OperationID   string          `db:"operation_id"`
	OperationType string          `db:"operation_type"`
	CurrencyID    string          `db:"currency_id"`
	CurrencyName  string          `db:"currency_name"`
	CashierName   string          `db:"cashier_name"`
	Amount        decimal.Decimal `db:"amount"`
	ExchangeRate  decimal.Decimal `db:"exchange_rate"`
	TotalInSom    decimal.Decimal `db:"total_in_som"`
	CreatedAt     time.Time       `db:"created_at"`
	EditedBy      string          `db:"edited_by"`
}
