package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils/accounting"
)

const (
	analyticsConcurrency = 4
	peakHoursLimit       = 2
)

// analyticsService implements the AnalyticsSvcFacade interface
type analyticsService struct {
	BaseService
	analyticsRepo    portsrepo.AnalyticsReader
	currencyRepo     portsrepo.CurrencyReader
	shiftRepo        portsrepo.ShiftReader
	baseCurrencyName string
}

// NewAnalyticsService creates a new analytics service with the provided options
func NewAnalyticsService(
	analyticsRepo portsrepo.AnalyticsReader,
	currencyRepo portsrepo.CurrencyReader,
	shiftRepo portsrepo.ShiftReader,
	baseCurrencyName string,
	options ...ServiceOption,
) portssvc.AnalyticsSvcFacade {
	return &analyticsService{
		BaseService:      newBaseService(options),
		analyticsRepo:    analyticsRepo,
		currencyRepo:     currencyRepo,
		shiftRepo:        shiftRepo,
		baseCurrencyName: baseCurrencyName,
	}
}

// Ensure analyticsService implements the AnalyticsSvcFacade interface
var _ portssvc.AnalyticsSvcFacade = (*analyticsService)(nil)

// ComputeProfit estimates the profit of one currency over [start, end].
func (s *analyticsService) ComputeProfit(ctx context.Context, currencyID string, start, end time.Time) (decimal.Decimal, error) {
	if currencyID == "" {
		return decimal.Zero, apperrors.NewValidationError("currency_id", "is required")
	}
	if end.Before(start) {
		return decimal.Zero, apperrors.NewValidationError("to", "must not be before 'from'")
	}

	stats, err := s.analyticsRepo.GetTradeStats(ctx, domain.TradeFilter{CurrencyID: currencyID, From: start, To: end})
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate operations for profit",
			slog.String("currency_id", currencyID),
			slog.String("from", start.Format(time.RFC3339)),
			slog.String("to", end.Format(time.RFC3339)))
		return decimal.Zero, fmt.Errorf("failed to aggregate operations: %w", err)
	}
	return accounting.Profit(*stats), nil
}

// analyticsStart resolves the start of an analytics period.
// "shift" falls back to the last three days when no shift is open.
func (s *analyticsService) analyticsStart(ctx context.Context, period string, now time.Time) (time.Time, error) {
	switch period {
	case PeriodToday, "":
		return startOfDay(now), nil
	case PeriodShift:
		open, err := s.shiftRepo.FindOpenShift(ctx)
		switch {
		case err == nil:
			return open.StartTime, nil
		case errors.Is(err, apperrors.ErrNotFound):
			start, _ := rollingStart(Period3Days, now)
			return start, nil
		default:
			return time.Time{}, fmt.Errorf("failed to load active shift: %w", err)
		}
	}
	if start, ok := rollingStart(period, now); ok {
		return start, nil
	}
	return time.Time{}, invalidPeriod(period, PeriodToday, Period3Days, PeriodWeek, PeriodMonth, PeriodShift)
}

type currencyStats struct {
	currency domain.Currency
	stats    domain.TradeStats
}

// collect aggregates every active non-base currency over [from, to] concurrently.
// It also returns the base currency balance, zero when the base currency is missing.
func (s *analyticsService) collect(ctx context.Context, from, to time.Time) ([]currencyStats, decimal.Decimal, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to list currencies: %w", err)
	}

	baseBalance := decimal.Zero
	traded := make([]domain.Currency, 0, len(currencies))
	for _, c := range currencies {
		if c.IsBase(s.baseCurrencyName) {
			baseBalance = c.Balance
			continue
		}
		traded = append(traded, c)
	}

	results := make([]currencyStats, len(traded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyticsConcurrency)
	for i, c := range traded {
		g.Go(func() error {
			stats, err := s.analyticsRepo.GetTradeStats(gctx, domain.TradeFilter{CurrencyID: c.CurrencyID, From: from, To: to})
			if err != nil {
				return fmt.Errorf("failed to aggregate %s: %w", c.Name, err)
			}
			results[i] = currencyStats{currency: c, stats: *stats}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, err
	}
	return results, baseBalance, nil
}

func buildReport(period string, from, to time.Time, baseBalance decimal.Decimal, results []currencyStats) domain.AnalyticsReport {
	report := domain.AnalyticsReport{
		Period:      period,
		StartTime:   from,
		EndTime:     to,
		BaseBalance: baseBalance,
		Details:     make([]domain.CurrencyAnalytics, len(results)),
	}
	total := decimal.Zero
	for i, r := range results {
		total = total.Add(accounting.UnroundedProfit(r.stats))
		report.Details[i] = domain.CurrencyAnalytics{
			CurrencyID:  r.currency.CurrencyID,
			Currency:    r.currency.Name,
			Balance:     r.currency.Balance,
			TotalBought: r.stats.TotalBought,
			AvgBuyRate:  r.stats.AvgBuyRate.Round(accounting.RateScale),
			TotalSold:   r.stats.TotalSold,
			AvgSellRate: r.stats.AvgSellRate.Round(accounting.RateScale),
			Profit:      accounting.Profit(r.stats),
		}
	}
	report.TotalProfit = total.Round(accounting.AmountScale)
	return report
}

// GetAnalytics reports per-currency totals for the period.
func (s *analyticsService) GetAnalytics(ctx context.Context, period string) (*domain.AnalyticsReport, error) {
	if period == "" {
		period = PeriodToday
	}
	now := s.Now()
	from, err := s.analyticsStart(ctx, period, now)
	if err != nil {
		return nil, err
	}

	results, baseBalance, err := s.collect(ctx, from, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to build analytics", slog.String("period", period))
		return nil, err
	}
	report := buildReport(period, from, now, baseBalance, results)

	s.LogInfo(ctx, "Analytics report generated",
		slog.String("period", period),
		slog.Int("currencies", len(report.Details)),
		slog.String("total_profit", report.TotalProfit.String()))
	return &report, nil
}

// GetAdvancedAnalytics adds transaction counts and the busiest hours to the period report.
func (s *analyticsService) GetAdvancedAnalytics(ctx context.Context, period string) (*domain.AdvancedAnalyticsReport, error) {
	if period == "" {
		period = PeriodWeek
	}
	now := s.Now()
	from, ok := rollingStart(period, now)
	if !ok {
		return nil, invalidPeriod(period, Period3Days, PeriodWeek, PeriodMonth)
	}

	var (
		results     []currencyStats
		baseBalance decimal.Decimal
		peaks       []domain.PeakHour
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, baseBalance, err = s.collect(gctx, from, now)
		return err
	})
	g.Go(func() error {
		var err error
		peaks, err = s.analyticsRepo.GetPeakHours(gctx, from, now, peakHoursLimit)
		if err != nil {
			return fmt.Errorf("failed to load peak hours: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build advanced analytics", slog.String("period", period))
		return nil, err
	}

	report := domain.AdvancedAnalyticsReport{
		AnalyticsReport: buildReport(period, from, now, baseBalance, results),
		PeakHours:       peaks,
	}
	if report.PeakHours == nil {
		report.PeakHours = []domain.PeakHour{}
	}
	for _, r := range results {
		report.TotalBuys += r.stats.BuyCount
		report.TotalSells += r.stats.SellCount
	}
	report.TotalTransactions = report.TotalBuys + report.TotalSells
	report.AverageProfitPerTransaction = decimal.Zero
	if report.TotalTransactions > 0 {
		report.AverageProfitPerTransaction = report.TotalProfit.
			Div(decimal.NewFromInt(report.TotalTransactions)).
			Round(accounting.AmountScale)
	}
	return &report, nil
}
