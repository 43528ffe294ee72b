package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceChange records a currency whose counted leftover differed from the ledger at shift close.
type BalanceChange struct {
	CurrencyID   string          `json:"currency_id"`
	CurrencyName string          `json:"currency_name"`
	OldBalance   decimal.Decimal `json:"old_balance"`
	NewBalance   decimal.Decimal `json:"new_balance"`
}

// Shift is a cashier's working session. A nil EndTime means the shift is open.
type Shift struct {
	ShiftID         string          `json:"shiftID"`
	UserID          *string         `json:"userID"`   // nullable: user row may be gone
	Username        string          `json:"username"` // joined for display, empty when UserID is nil
	StartTime       time.Time       `json:"startTime"`
	EndTime         *time.Time      `json:"endTime"`
	Note            string          `json:"note"`
	ChangedBalances []BalanceChange `json:"changedBalances"`
}

// IsOpen reports whether the shift has not been closed yet.
func (s Shift) IsOpen() bool {
	return s.EndTime == nil
}

// HasCashier reports whether a user is assigned to the shift.
func (s Shift) HasCashier() bool {
	return s.UserID != nil && *s.UserID != ""
}

// ShiftInfo describes the open shift and its cashier.
type ShiftInfo struct {
	ShiftID   string    `json:"shiftID"`
	StartTime time.Time `json:"startTime"`
	Cashier   *User     `json:"cashier"`
}

// CashierChange is the result of reassigning the active shift's cashier.
type CashierChange struct {
	ShiftID string `json:"shiftID"`
	OldUser *User  `json:"oldUser"`
	NewUser User   `json:"newUser"`
}
