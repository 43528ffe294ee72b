package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the direction of a client operation, seen from the kiosk.
type OperationType string

const (
	// Buy: the kiosk buys foreign currency from a client and pays in base currency.
	Buy OperationType = "buy"
	// Sell: the kiosk sells foreign currency to a client and receives base currency.
	Sell OperationType = "sell"
)

// Valid reports whether t is buy or sell.
func (t OperationType) Valid() bool {
	return t == Buy || t == Sell
}

// Operation is a single buy/sell performed at the counter.
type Operation struct {
	OperationID   string          `json:"operationID"`
	OperationType OperationType   `json:"operationType"`
	CurrencyID    string          `json:"currencyID"`
	CurrencyName  string          `json:"currencyName"`
	CashierName   string          `json:"cashierName"`  // captured from the active shift at creation
	Amount        decimal.Decimal `json:"amount"`       // NUMERIC(12,2)
	ExchangeRate  decimal.Decimal `json:"exchangeRate"` // NUMERIC(12,4)
	TotalInBase   decimal.Decimal `json:"totalInSom"`   // NUMERIC(15,2)
	CreatedAt     time.Time       `json:"createdAt"`
	EditedBy      string          `json:"editedBy"` // empty until edited
}

// Edited reports whether the operation was changed after creation.
func (o Operation) Edited() bool {
	return o.EditedBy != ""
}
