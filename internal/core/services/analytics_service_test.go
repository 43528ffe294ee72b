package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/services"
)

// --- Mock AnalyticsReader ---
type MockAnalyticsReader struct {
	mock.Mock
}

func (m *MockAnalyticsReader) GetTradeStats(ctx context.Context, filter domain.TradeFilter) (*domain.TradeStats, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TradeStats), args.Error(1)
}

func (m *MockAnalyticsReader) GetPeakHours(ctx context.Context, from, to time.Time, limit int) ([]domain.PeakHour, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeakHour), args.Error(1)
}

type AnalyticsServiceTestSuite struct {
	suite.Suite
	store *memStore
	clock *testClock
	ctx   context.Context
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemStore()
	suite.clock = newTestClock(testStart.Add(3 * time.Hour))
	suite.store.addCurrency(baseID, baseName, "10000.00")
	suite.store.addCurrency(usdID, "USD", "50.00")
	suite.store.addCurrency(eurID, "EUR", "30.00")
	suite.store.addUser(cashierID, "aibek", domain.RoleCashier)
	suite.store.openShift("shift-1", cashierID, testStart)

	suite.store.addOperation("op-old", domain.Buy, usdID, "2", "79", testStart.Add(-20*time.Hour))
	suite.store.addOperation("op-1", domain.Buy, usdID, "10", "80", testStart.Add(time.Hour))
	suite.store.addOperation("op-2", domain.Sell, usdID, "4", "85", testStart.Add(2*time.Hour))
	suite.store.addOperation("op-3", domain.Buy, eurID, "5", "90", testStart.Add(time.Hour+time.Minute))
}

func (suite *AnalyticsServiceTestSuite) newService() portssvc.AnalyticsSvcFacade {
	return services.NewAnalyticsService(suite.store, suite.store, suite.store, baseName,
		services.WithClock(suite.clock.Now))
}

func (suite *AnalyticsServiceTestSuite) TestComputeProfit() {
	repo := new(MockAnalyticsReader)
	svc := services.NewAnalyticsService(repo, suite.store, suite.store, baseName)
	start, end := testStart, testStart.Add(8*time.Hour)

	repo.On("GetTradeStats", suite.ctx, domain.TradeFilter{CurrencyID: usdID, From: start, To: end}).Return(&domain.TradeStats{
		TotalBought: dec("100"),
		TotalSold:   dec("60"),
		AvgBuyRate:  dec("80"),
		AvgSellRate: dec("85.5"),
	}, nil).Once()

	profit, err := svc.ComputeProfit(suite.ctx, usdID, start, end)

	suite.Require().NoError(err)
	suite.True(profit.Equal(dec("330")), profit.String())
	repo.AssertExpectations(suite.T())
}

func (suite *AnalyticsServiceTestSuite) TestComputeProfit_OneSidedIsZero() {
	repo := new(MockAnalyticsReader)
	svc := services.NewAnalyticsService(repo, suite.store, suite.store, baseName)
	repo.On("GetTradeStats", suite.ctx, mock.AnythingOfType("domain.TradeFilter")).Return(&domain.TradeStats{
		TotalBought: dec("100"),
		AvgBuyRate:  dec("80"),
	}, nil).Once()

	profit, err := svc.ComputeProfit(suite.ctx, usdID, testStart, testStart)

	suite.Require().NoError(err)
	suite.True(profit.IsZero())
}

func (suite *AnalyticsServiceTestSuite) TestComputeProfit_Validation() {
	repo := new(MockAnalyticsReader)
	svc := services.NewAnalyticsService(repo, suite.store, suite.store, baseName)

	_, err := svc.ComputeProfit(suite.ctx, usdID, testStart, testStart.Add(-time.Second))
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = svc.ComputeProfit(suite.ctx, "", testStart, testStart)
	suite.ErrorIs(err, apperrors.ErrValidation)

	repo.AssertNotCalled(suite.T(), "GetTradeStats", mock.Anything, mock.Anything)
}

func (suite *AnalyticsServiceTestSuite) TestComputeProfit_RepoError() {
	repo := new(MockAnalyticsReader)
	svc := services.NewAnalyticsService(repo, suite.store, suite.store, baseName)
	repo.On("GetTradeStats", suite.ctx, mock.Anything).Return(nil, assert.AnError).Once()

	_, err := svc.ComputeProfit(suite.ctx, usdID, testStart, testStart)

	suite.ErrorIs(err, assert.AnError)
}

func (suite *AnalyticsServiceTestSuite) TestGetAnalytics_Today() {
	report, err := suite.newService().GetAnalytics(suite.ctx, "")

	suite.Require().NoError(err)
	suite.Equal(services.PeriodToday, report.Period)
	suite.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), report.StartTime)
	suite.True(report.BaseBalance.Equal(dec("10000")))
	suite.Require().Len(report.Details, 2)

	eur, usd := report.Details[0], report.Details[1]
	suite.Equal("EUR", eur.Currency)
	suite.True(eur.TotalBought.Equal(dec("5")))
	suite.True(eur.Profit.IsZero())

	suite.Equal("USD", usd.Currency)
	suite.True(usd.Balance.Equal(dec("50")))
	suite.True(usd.TotalBought.Equal(dec("10")))
	suite.True(usd.TotalSold.Equal(dec("4")))
	suite.True(usd.AvgBuyRate.Equal(dec("80")))
	suite.True(usd.AvgSellRate.Equal(dec("85")))
	suite.True(usd.Profit.Equal(dec("20")))

	suite.True(report.TotalProfit.Equal(dec("20")))
}

func (suite *AnalyticsServiceTestSuite) TestGetAnalytics_ShiftPeriod() {
	report, err := suite.newService().GetAnalytics(suite.ctx, services.PeriodShift)
	suite.Require().NoError(err)
	suite.Equal(testStart, report.StartTime)

	suite.store.shifts = map[string]domain.Shift{}
	report, err = suite.newService().GetAnalytics(suite.ctx, services.PeriodShift)
	suite.Require().NoError(err)
	suite.Equal(suite.clock.Now().AddDate(0, 0, -3), report.StartTime)
	// the older buy at 79 is now inside the window: min(12, 4) × (85 − 79.5)
	suite.True(report.TotalProfit.Equal(dec("22")), report.TotalProfit.String())
}

func (suite *AnalyticsServiceTestSuite) TestGetAnalytics_MissingBaseCurrencyReportsZero() {
	delete(suite.store.currencies, baseID)

	report, err := suite.newService().GetAnalytics(suite.ctx, services.PeriodWeek)

	suite.Require().NoError(err)
	suite.True(report.BaseBalance.IsZero())
	suite.Len(report.Details, 2)
}

func (suite *AnalyticsServiceTestSuite) TestGetAnalytics_InvalidPeriod() {
	_, err := suite.newService().GetAnalytics(suite.ctx, "decade")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AnalyticsServiceTestSuite) TestGetAdvancedAnalytics() {
	report, err := suite.newService().GetAdvancedAnalytics(suite.ctx, "")

	suite.Require().NoError(err)
	suite.Equal(services.PeriodWeek, report.Period)
	suite.Equal(int64(4), report.TotalTransactions)
	suite.Equal(int64(3), report.TotalBuys)
	suite.Equal(int64(1), report.TotalSells)
	suite.True(report.TotalProfit.Equal(dec("22")), report.TotalProfit.String())
	suite.True(report.AverageProfitPerTransaction.Equal(dec("5.5")))

	suite.Require().Len(report.PeakHours, 2)
	suite.Equal(testStart.Add(time.Hour), report.PeakHours[0].Hour)
	suite.Equal(int64(2), report.PeakHours[0].OperationCount)
}

func (suite *AnalyticsServiceTestSuite) TestGetAdvancedAnalytics_RejectsTodayAndShift() {
	for _, period := range []string{services.PeriodToday, services.PeriodShift} {
		_, err := suite.newService().GetAdvancedAnalytics(suite.ctx, period)
		suite.ErrorIs(err, apperrors.ErrValidation, period)
	}
}

func (suite *AnalyticsServiceTestSuite) TestGetAdvancedAnalytics_NoOperations() {
	suite.store.operations = map[string]domain.Operation{}

	report, err := suite.newService().GetAdvancedAnalytics(suite.ctx, services.Period3Days)

	suite.Require().NoError(err)
	suite.Zero(report.TotalTransactions)
	suite.True(report.AverageProfitPerTransaction.IsZero())
	suite.NotNil(report.PeakHours)
	suite.Empty(report.PeakHours)
}

func TestAnalyticsService(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}
