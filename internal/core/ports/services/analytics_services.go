package services

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AnalyticsSvcFacade produces profit and activity reports.
type AnalyticsSvcFacade interface {
	// ComputeProfit estimates the profit of one currency over [start, end].
	ComputeProfit(ctx context.Context, currencyID string, start, end time.Time) (decimal.Decimal, error)

	// GetAnalytics reports per-currency totals for "today", "3days", "week", "month" or "shift".
	GetAnalytics(ctx context.Context, period string) (*domain.AnalyticsReport, error)

	// GetAdvancedAnalytics adds transaction counts and peak hours for "3days", "week" or "month".
	GetAdvancedAnalytics(ctx context.Context, period string) (*domain.AdvancedAnalyticsReport, error)
}
