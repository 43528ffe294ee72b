package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
)

const eurID = "cur-eur"

type ShiftServiceTestSuite struct {
	suite.Suite
	store   *memStore
	clock   *testClock
	history *recordingHistory
	service portssvc.ShiftSvcFacade
	ctx     context.Context
}

func (suite *ShiftServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemStore()
	suite.clock = newTestClock(testStart)
	suite.history = &recordingHistory{}
	suite.store.addCurrency(baseID, baseName, "10000.00")
	suite.store.addCurrency(usdID, "USD", "50.00")
	suite.store.addCurrency(eurID, "EUR", "30.00")
	suite.store.addUser(cashierID, "aibek", domain.RoleCashier)
	suite.store.addUser(adminID, "admin", domain.RoleAdmin)
	suite.store.openShift("shift-1", cashierID, testStart)

	suite.service = services.NewShiftService(suite.store, suite.store, suite.store, suite.store, suite.history,
		services.WithClock(suite.clock.Now))
}

func entry(currencyID, leftover string) dto.ShiftBalanceEntry {
	return dto.ShiftBalanceEntry{CurrencyID: currencyID, Leftover: dec(leftover)}
}

func (suite *ShiftServiceTestSuite) TestCloseShift_ReconcilesChangedBalancesOnly() {
	suite.clock.Advance(8 * time.Hour)
	req := dto.CloseShiftRequest{Balances: []dto.ShiftBalanceEntry{
		entry(usdID, "50.00"),
		entry(eurID, "25.50"),
		entry(baseID, "9000"),
	}}

	newID, err := suite.service.CloseShift(suite.ctx, req, adminID)

	suite.Require().NoError(err)
	suite.NotEmpty(newID)
	suite.Equal(1, suite.store.openShiftCount())

	closed := suite.store.shift("shift-1")
	suite.Require().NotNil(closed.EndTime)
	suite.Equal(testStart.Add(8*time.Hour), *closed.EndTime)
	suite.Equal("Closed by user: admin", closed.Note)
	suite.Require().Len(closed.ChangedBalances, 2)
	suite.Equal(eurID, closed.ChangedBalances[0].CurrencyID)
	suite.Equal("EUR", closed.ChangedBalances[0].CurrencyName)
	suite.True(closed.ChangedBalances[0].OldBalance.Equal(dec("30")))
	suite.True(closed.ChangedBalances[0].NewBalance.Equal(dec("25.50")))
	suite.Equal(baseID, closed.ChangedBalances[1].CurrencyID)

	suite.True(suite.store.balance(eurID).Equal(dec("25.5")))
	suite.True(suite.store.balance(baseID).Equal(dec("9000")))
	suite.True(suite.store.balance(usdID).Equal(dec("50")))

	next := suite.store.shift(newID)
	suite.True(next.IsOpen())
	suite.Require().NotNil(next.UserID)
	suite.Equal(adminID, *next.UserID)
	suite.Equal(testStart.Add(8*time.Hour), next.StartTime)
}

func (suite *ShiftServiceTestSuite) TestCloseShift_UnchangedLeftoverProducesNoEntry() {
	req := dto.CloseShiftRequest{Balances: []dto.ShiftBalanceEntry{entry(usdID, "50")}}

	_, err := suite.service.CloseShift(suite.ctx, req, cashierID)

	suite.Require().NoError(err)
	closed := suite.store.shift("shift-1")
	suite.NotNil(closed.ChangedBalances)
	suite.Empty(closed.ChangedBalances)
	suite.Equal("Closed by user: aibek", closed.Note)
}

func (suite *ShiftServiceTestSuite) TestCloseShift_SkipsUnknownCurrencies() {
	req := dto.CloseShiftRequest{Balances: []dto.ShiftBalanceEntry{
		entry("cur-missing", "10"),
		entry(usdID, "40"),
	}}

	_, err := suite.service.CloseShift(suite.ctx, req, cashierID)

	suite.Require().NoError(err)
	closed := suite.store.shift("shift-1")
	suite.Require().Len(closed.ChangedBalances, 1)
	suite.Equal(usdID, closed.ChangedBalances[0].CurrencyID)
}

func (suite *ShiftServiceTestSuite) TestCloseShift_Validation() {
	cases := map[string][]dto.ShiftBalanceEntry{
		"duplicate currency": {entry(usdID, "1"), entry(usdID, "2")},
		"negative leftover":  {entry(usdID, "-1")},
		"three decimals":     {entry(usdID, "1.001")},
		"missing currency":   {entry("", "1")},
		"leftover too large": {entry(usdID, "10000000000000")},
	}
	for name, balances := range cases {
		suite.Run(name, func() {
			_, err := suite.service.CloseShift(suite.ctx, dto.CloseShiftRequest{Balances: balances}, adminID)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.True(suite.store.shift("shift-1").IsOpen())
	suite.Equal(1, suite.store.openShiftCount())
	suite.True(suite.store.balance(usdID).Equal(dec("50")))
}

func (suite *ShiftServiceTestSuite) TestCloseShift_WithoutOpenShiftOnlyOpensNew() {
	suite.store.shifts = map[string]domain.Shift{}

	newID, err := suite.service.CloseShift(suite.ctx, dto.CloseShiftRequest{
		Balances: []dto.ShiftBalanceEntry{entry(usdID, "0")},
	}, adminID)

	suite.Require().NoError(err)
	suite.Equal(1, suite.store.openShiftCount())
	suite.True(suite.store.shift(newID).IsOpen())
	// nothing is reconciled without a shift to close
	suite.True(suite.store.balance(usdID).Equal(dec("50")))
}

func (suite *ShiftServiceTestSuite) TestCloseShift_UnknownCloserRollsBack() {
	_, err := suite.service.CloseShift(suite.ctx, dto.CloseShiftRequest{
		Balances: []dto.ShiftBalanceEntry{entry(usdID, "10")},
	}, "user-missing")

	suite.ErrorIs(err, apperrors.ErrUserNotFound)
	suite.True(suite.store.shift("shift-1").IsOpen())
	suite.True(suite.store.balance(usdID).Equal(dec("50")))
}

func (suite *ShiftServiceTestSuite) TestCloseShift_OperationsFollowNewOwner() {
	newID, err := suite.service.CloseShift(suite.ctx, dto.CloseShiftRequest{}, adminID)
	suite.Require().NoError(err)

	ledger := services.NewLedgerService(suite.store, suite.store, suite.store, suite.store, baseName,
		services.WithClock(suite.clock.Now))
	op, err := ledger.CreateOperation(suite.ctx, dto.CreateOperationRequest{
		OperationType: domain.Buy, CurrencyID: usdID, Amount: dec("1"), ExchangeRate: dec("80"),
	})

	suite.Require().NoError(err)
	suite.Equal("admin", op.CashierName)
	suite.NotEqual("shift-1", newID)
}

func (suite *ShiftServiceTestSuite) TestReassignCashier() {
	change, err := suite.service.ReassignCashier(suite.ctx, adminID, adminID)

	suite.Require().NoError(err)
	suite.Equal("shift-1", change.ShiftID)
	suite.Require().NotNil(change.OldUser)
	suite.Equal("aibek", change.OldUser.Username)
	suite.Equal("admin", change.NewUser.Username)

	shift := suite.store.shift("shift-1")
	suite.Equal(adminID, *shift.UserID)
	suite.True(shift.IsOpen())

	events := suite.history.recorded()
	suite.Require().Len(events, 1)
	suite.Equal(domain.EventUpdateUser, events[0].EventType)
	suite.Equal("admin", events[0].TargetUsername)
	suite.Equal("admin", events[0].Username)
}

func (suite *ShiftServiceTestSuite) TestReassignCashier_NoActiveShift() {
	suite.store.shifts = map[string]domain.Shift{}

	_, err := suite.service.ReassignCashier(suite.ctx, adminID, adminID)

	suite.ErrorIs(err, apperrors.ErrNoActiveShift)
	suite.Empty(suite.history.recorded())
}

func (suite *ShiftServiceTestSuite) TestReassignCashier_UnknownOrDeletedUser() {
	_, err := suite.service.ReassignCashier(suite.ctx, "user-missing", adminID)
	suite.ErrorIs(err, apperrors.ErrUserNotFound)

	suite.Require().NoError(suite.store.MarkUserDeleted(suite.ctx, adminID, testStart))
	_, err = suite.service.ReassignCashier(suite.ctx, adminID, cashierID)
	suite.ErrorIs(err, apperrors.ErrUserNotFound)

	suite.Equal(cashierID, *suite.store.shift("shift-1").UserID)
	suite.Empty(suite.history.recorded())
}

func (suite *ShiftServiceTestSuite) TestGetActiveShift() {
	info, err := suite.service.GetActiveShift(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal("shift-1", info.ShiftID)
	suite.Equal(testStart, info.StartTime)
	suite.Require().NotNil(info.Cashier)
	suite.Equal("aibek", info.Cashier.Username)
	suite.Equal(domain.RoleCashier, info.Cashier.Role)
}

func (suite *ShiftServiceTestSuite) TestGetActiveShift_WithoutCashier() {
	suite.store.shifts = map[string]domain.Shift{}
	suite.store.openShift("shift-2", "", testStart)

	info, err := suite.service.GetActiveShift(suite.ctx)

	suite.Require().NoError(err)
	suite.Nil(info.Cashier)
}

func (suite *ShiftServiceTestSuite) TestGetActiveShift_DeletedCashierFallsBack() {
	suite.Require().NoError(suite.store.MarkUserDeleted(suite.ctx, cashierID, testStart))

	info, err := suite.service.GetActiveShift(suite.ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(info.Cashier)
	suite.Equal(cashierID, info.Cashier.UserID)
	suite.Equal("aibek", info.Cashier.Username)
}

func (suite *ShiftServiceTestSuite) TestGetActiveShift_None() {
	suite.store.shifts = map[string]domain.Shift{}

	_, err := suite.service.GetActiveShift(suite.ctx)

	suite.ErrorIs(err, apperrors.ErrNoActiveShift)
}

func (suite *ShiftServiceTestSuite) TestListShiftHistory() {
	suite.store.addClosedShift("shift-0", cashierID, testStart.Add(-8*time.Hour), testStart.Add(-time.Hour))
	suite.store.addOperation("op-1", domain.Buy, usdID, "10", "80", testStart.Add(-6*time.Hour))
	suite.store.addOperation("op-2", domain.Sell, usdID, "4", "85", testStart.Add(-5*time.Hour))
	suite.store.addOperation("op-3", domain.Buy, eurID, "5", "90", testStart.Add(time.Hour))
	suite.clock.Advance(2 * time.Hour)

	summaries, err := suite.service.ListShiftHistory(suite.ctx, 10, 0)

	suite.Require().NoError(err)
	suite.Require().Len(summaries, 2)

	suite.Equal("shift-1", summaries[0].ShiftID)
	suite.Equal(int64(1), summaries[0].OperationsCount)
	suite.True(summaries[0].OverallProfit.IsZero())

	suite.Equal("shift-0", summaries[1].ShiftID)
	suite.Equal("aibek", summaries[1].Username)
	suite.Equal(int64(2), summaries[1].OperationsCount)
	// min(10, 4) × (85 − 80)
	suite.True(summaries[1].OverallProfit.Equal(dec("20")), summaries[1].OverallProfit.String())
}

func (suite *ShiftServiceTestSuite) TestListShiftHistory_AggregateFailure() {
	suite.store.fail("GetTradeStats", apperrors.ErrConflict)

	_, err := suite.service.ListShiftHistory(suite.ctx, 10, 0)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestShiftService(t *testing.T) {
	suite.Run(t, new(ShiftServiceTestSuite))
}
