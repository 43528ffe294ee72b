package dto

import (
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ShiftBalanceEntry is one counted currency at shift close.
type ShiftBalanceEntry struct {
	CurrencyID string          `json:"currencyID" binding:"required"`
	Leftover   decimal.Decimal `json:"leftover" swaggertype:"string" example:"1500.00"`
}

// CloseShiftRequest carries the counted leftovers. Currencies not listed keep their balance.
type CloseShiftRequest struct {
	Balances []ShiftBalanceEntry `json:"balances" binding:"dive"`
}

// CloseShiftResponse returns the newly opened shift.
type CloseShiftResponse struct {
	NewShiftID string `json:"newShiftID"`
}

// ReassignCashierRequest names the user taking over the active shift.
type ReassignCashierRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// CashierResponse is the short user view embedded in shift responses.
type CashierResponse struct {
	UserID   string          `json:"userID"`
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}

func toCashierResponse(u *domain.User) *CashierResponse {
	if u == nil {
		return nil
	}
	return &CashierResponse{UserID: u.UserID, Username: u.Username, Role: u.Role}
}

// CashierChangeResponse is returned after a cashier reassignment.
type CashierChangeResponse struct {
	ShiftID string           `json:"shiftID"`
	OldUser *CashierResponse `json:"oldUser"`
	NewUser *CashierResponse `json:"newUser"`
}

// ToCashierChangeResponse converts a domain.CashierChange to CashierChangeResponse DTO
func ToCashierChangeResponse(c *domain.CashierChange) CashierChangeResponse {
	return CashierChangeResponse{
		ShiftID: c.ShiftID,
		OldUser: toCashierResponse(c.OldUser),
		NewUser: toCashierResponse(&c.NewUser),
	}
}

// ActiveShiftResponse describes the open shift.
type ActiveShiftResponse struct {
	ShiftID   string           `json:"shiftID"`
	StartTime time.Time        `json:"startTime"`
	Cashier   *CashierResponse `json:"cashier"`
}

// ToActiveShiftResponse converts a domain.ShiftInfo to ActiveShiftResponse DTO
func ToActiveShiftResponse(info *domain.ShiftInfo) ActiveShiftResponse {
	return ActiveShiftResponse{
		ShiftID:   info.ShiftID,
		StartTime: info.StartTime,
		Cashier:   toCashierResponse(info.Cashier),
	}
}

// ListShiftsParams defines query parameters for the shift history.
type ListShiftsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// BalanceChangeResponse is one reconciled currency of a closed shift.
type BalanceChangeResponse struct {
	CurrencyID   string          `json:"currencyID"`
	CurrencyName string          `json:"currencyName"`
	OldBalance   decimal.Decimal `json:"oldBalance" swaggertype:"string"`
	NewBalance   decimal.Decimal `json:"newBalance" swaggertype:"string"`
}

// ShiftHistoryEntry is one row of the shift history.
type ShiftHistoryEntry struct {
	ShiftID         string                  `json:"shiftID"`
	Username        string                  `json:"username,omitempty"`
	StartTime       time.Time               `json:"startTime"`
	EndTime         *time.Time              `json:"endTime"`
	Note            string                  `json:"note,omitempty"`
	OperationsCount int64                   `json:"operationsCount"`
	OverallProfit   decimal.Decimal         `json:"overallProfit" swaggertype:"string"`
	ChangedBalances []BalanceChangeResponse `json:"changedBalances"`
}

// ListShiftsResponse wraps the shift history.
type ListShiftsResponse struct {
	Shifts []ShiftHistoryEntry `json:"shifts"`
}

// ToListShiftsResponse converts shift summaries to ListShiftsResponse DTO
func ToListShiftsResponse(summaries []domain.ShiftSummary) ListShiftsResponse {
	res := make([]ShiftHistoryEntry, len(summaries))
	for i, s := range summaries {
		changes := make([]BalanceChangeResponse, len(s.ChangedBalances))
		for j, c := range s.ChangedBalances {
			changes[j] = BalanceChangeResponse(c)
		}
		res[i] = ShiftHistoryEntry{
			ShiftID:         s.ShiftID,
			Username:        s.Username,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			Note:            s.Note,
			OperationsCount: s.OperationsCount,
			OverallProfit:   s.OverallProfit,
			ChangedBalances: changes,
		}
	}
	return ListShiftsResponse{Shifts: res}
}
