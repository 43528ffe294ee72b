package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeStats aggregates operations over a window: sums of amounts and plain averages of rates.
type TradeStats struct {
	BuyCount    int64           `json:"buyCount"`
	SellCount   int64           `json:"sellCount"`
	TotalBought decimal.Decimal `json:"totalBought"`
	TotalSold   decimal.Decimal `json:"totalSold"`
	AvgBuyRate  decimal.Decimal `json:"avgBuyRate"`
	AvgSellRate decimal.Decimal `json:"avgSellRate"`
}

// TradeFilter selects operations for aggregation. CurrencyID empty means all currencies.
type TradeFilter struct {
	CurrencyID string
	From       time.Time
	To         time.Time
}

// CurrencyAnalytics is one row of the per-currency analytics report.
type CurrencyAnalytics struct {
	CurrencyID  string          `json:"currencyID"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	TotalBought decimal.Decimal `json:"buyCount"`
	AvgBuyRate  decimal.Decimal `json:"avgBuyRate"`
	TotalSold   decimal.Decimal `json:"sellCount"`
	AvgSellRate decimal.Decimal `json:"avgSellRate"`
	Profit      decimal.Decimal `json:"profit"`
}

// AnalyticsReport is the per-period analytics summary.
type AnalyticsReport struct {
	Period      string              `json:"period"`
	StartTime   time.Time           `json:"startTime"`
	EndTime     time.Time           `json:"endTime"`
	BaseBalance decimal.Decimal     `json:"somBalance"`
	TotalProfit decimal.Decimal     `json:"totalProfit"`
	Details     []CurrencyAnalytics `json:"details"`
}

// PeakHour counts operations within one clock hour.
type PeakHour struct {
	Hour           time.Time `json:"hour"`
	OperationCount int64     `json:"operationCount"`
}

// AdvancedAnalyticsReport adds transaction totals and busiest hours to the summary.
type AdvancedAnalyticsReport struct {
	AnalyticsReport
	TotalTransactions           int64           `json:"totalTransactions"`
	TotalBuys                   int64           `json:"totalBuys"`
	TotalSells                  int64           `json:"totalSells"`
	AverageProfitPerTransaction decimal.Decimal `json:"averageProfitPerTransaction"`
	PeakHours                   []PeakHour      `json:"peakHours"`
}

// ShiftSummary is one row of the shift history.
type ShiftSummary struct {
	Shift
	OperationsCount int64           `json:"operationsCount"`
	OverallProfit   decimal.Decimal `json:"overallProfit"`
}
