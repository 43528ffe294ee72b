package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// AnalyticsReader runs aggregate queries over client operations.
// Windows are inclusive on both ends.
type AnalyticsReader interface {
	// GetTradeStats aggregates counts, sums and average rates of operations matching filter.
	GetTradeStats(ctx context.Context, filter domain.TradeFilter) (*domain.TradeStats, error)

	// GetPeakHours returns the busiest clock hours in the window, busiest first.
	GetPeakHours(ctx context.Context, from, to time.Time, limit int) ([]domain.PeakHour, error)
}
