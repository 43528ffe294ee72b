package domain

import "github.com/shopspring/decimal"

// Currency is a cash drawer balance held by the kiosk.
type Currency struct {
	CurrencyID string          `json:"currencyID"` // Primary Key (UUID)
	Name       string          `json:"name"`       // Unique among active currencies, e.g. "USD"
	Balance    decimal.Decimal `json:"balance"`    // NUMERIC(15,2)
	Status     RecordStatus    `json:"status"`
	AuditFields
}

// IsBase reports whether c is the settlement currency identified by baseName.
func (c Currency) IsBase(baseName string) bool {
	return c.Name == baseName
}
