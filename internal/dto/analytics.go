package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsParams selects the reporting window.
type AnalyticsParams struct {
	Period string `form:"period,default=today" binding:"oneof=today 3days week month shift"`
}

// AdvancedAnalyticsParams selects the window for the advanced report.
type AdvancedAnalyticsParams struct {
	Period string `form:"period,default=week" binding:"oneof=3days week month"`
}

// ProfitParams selects a currency and an inclusive time window.
type ProfitParams struct {
	CurrencyID string    `form:"currencyID" binding:"required"`
	From       time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To         time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ProfitResponse is the estimated profit of a currency over a window.
type ProfitResponse struct {
	CurrencyID string          `json:"currencyID"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Profit     decimal.Decimal `json:"profit" swaggertype:"string"`
}
