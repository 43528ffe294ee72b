package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceChange is one element of the shifts.changed_balances JSONB array.
type BalanceChange struct {
	CurrencyID   string          `json:"currency_id"`
	CurrencyName string          `json:"currency_name"`
	OldBalance   decimal.Decimal `json:"old_balance"`
	NewBalance   decimal.Decimal `json:"new_balance"`
}

// Shift is a row of the shifts table joined with the owner's username.
type Shift struct {
	ShiftID         string          `db:"shift_id"`
	UserID          *string         `db:"user_id"`
	Username        *string         `db:"username"`
	StartTime       time.Time       `db:"start_time"`
	EndTime         *time.Time      `db:"end_time"`
	Note            string          `db:"note"`
	ChangedBalances []BalanceChange `db:"changed_balances"`
}
