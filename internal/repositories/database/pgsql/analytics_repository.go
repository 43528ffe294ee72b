package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
)

type PgxAnalyticsRepository struct {
	db querier
}

func newPgxAnalyticsRepository(db querier) *PgxAnalyticsRepository {
	return &PgxAnalyticsRepository{db: db}
}

var _ portsrepo.AnalyticsReader = (*PgxAnalyticsRepository)(nil)

// GetTradeStats aggregates operations in [From, To]; an empty CurrencyID covers all currencies.
// Averages are plain means of exchange_rate, not amount-weighted.
func (r *PgxAnalyticsRepository) GetTradeStats(ctx context.Context, filter domain.TradeFilter) (*domain.TradeStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE operation_type = 'buy'),
			COUNT(*) FILTER (WHERE operation_type = 'sell'),
			COALESCE(SUM(amount) FILTER (WHERE operation_type = 'buy'), 0),
			COALESCE(SUM(amount) FILTER (WHERE operation_type = 'sell'), 0),
			COALESCE(AVG(exchange_rate) FILTER (WHERE operation_type = 'buy'), 0),
			COALESCE(AVG(exchange_rate) FILTER (WHERE operation_type = 'sell'), 0)
		FROM client_operations
		WHERE created_at BETWEEN $1 AND $2
		  AND ($3::text = '' OR currency_id = $3::text);
	`
	var s domain.TradeStats
	err := r.db.QueryRow(ctx, query, filter.From, filter.To, filter.CurrencyID).Scan(
		&s.BuyCount,
		&s.SellCount,
		&s.TotalBought,
		&s.TotalSold,
		&s.AvgBuyRate,
		&s.AvgSellRate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate operations: %w", err)
	}
	return &s, nil
}

// GetPeakHours returns the busiest clock hours in [from, to].
func (r *PgxAnalyticsRepository) GetPeakHours(ctx context.Context, from, to time.Time, limit int) ([]domain.PeakHour, error) {
	query := `
		SELECT date_trunc('hour', created_at) AS hour, COUNT(*) AS operation_count
		FROM client_operations
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY hour
		ORDER BY operation_count DESC, hour DESC
		LIMIT $3;
	`
	rows, err := r.db.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query peak hours: %w", err)
	}
	defer rows.Close()

	hours := []domain.PeakHour{}
	for rows.Next() {
		var h domain.PeakHour
		if err := rows.Scan(&h.Hour, &h.OperationCount); err != nil {
			return nil, fmt.Errorf("failed to scan peak hour row: %w", err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating peak hour rows: %w", err)
	}
	return hours, nil
}
