package models

import "github.com/shopspring/decimal"

// Currency is a row of the currencies table.
type Currency struct {
	CurrencyID string          `db:"currency_id"`
	Name       string          `db:"name"`
	Balance    decimal.Decimal `db:"balance"`
	Status     string          `db:"status"`
	AuditFields
}
