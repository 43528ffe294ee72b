package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/services"
)

// blockingHistoryRepo holds every write until release is closed.
type blockingHistoryRepo struct {
	*memStore
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *blockingHistoryRepo) SaveHistoryEvent(ctx context.Context, event domain.HistoryEvent) error {
	r.once.Do(func() { close(r.started) })
	<-r.release
	return r.memStore.SaveHistoryEvent(ctx, event)
}

type HistoryServiceTestSuite struct {
	suite.Suite
	store *memStore
	clock *testClock
	ctx   context.Context
}

func (suite *HistoryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemStore()
	suite.clock = newTestClock(testStart)
}

func (suite *HistoryServiceTestSuite) TestRecord_WritesInBackground() {
	svc := services.NewHistoryService(suite.store, 8, services.WithClock(suite.clock.Now))
	currencyID := usdID

	svc.Record(suite.ctx, domain.HistoryEvent{EventType: domain.EventCreateCurrency, CurrencyID: &currencyID, CurrencyName: "USD"})
	svc.Record(suite.ctx, domain.HistoryEvent{EventType: domain.EventDeleteCurrency, CurrencyID: &currencyID, CurrencyName: "USD"})
	svc.Close()

	events := suite.store.historyEvents()
	suite.Require().Len(events, 2)
	suite.Equal(domain.EventCreateCurrency, events[0].EventType)
	suite.NotEmpty(events[0].EventID)
	suite.NotEqual(events[0].EventID, events[1].EventID)
	suite.Equal(testStart, events[0].Timestamp)
}

func (suite *HistoryServiceTestSuite) TestRecord_CancelledRequestStillWrites() {
	svc := services.NewHistoryService(suite.store, 8)
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	svc.Record(ctx, domain.HistoryEvent{EventType: domain.EventCreateUser})
	svc.Close()

	suite.Len(suite.store.historyEvents(), 1)
}

func (suite *HistoryServiceTestSuite) TestRecord_DropsWhenQueueFull() {
	repo := &blockingHistoryRepo{memStore: suite.store, started: make(chan struct{}), release: make(chan struct{})}
	svc := services.NewHistoryService(repo, 1)

	svc.Record(suite.ctx, domain.HistoryEvent{EventType: domain.EventCreateUser, Username: "first"})
	<-repo.started
	svc.Record(suite.ctx, domain.HistoryEvent{EventType: domain.EventCreateUser, Username: "queued"})
	svc.Record(suite.ctx, domain.HistoryEvent{EventType: domain.EventCreateUser, Username: "dropped"})

	close(repo.release)
	svc.Close()

	events := suite.store.historyEvents()
	suite.Require().Len(events, 2)
	suite.Equal("first", events[0].Username)
	suite.Equal("queued", events[1].Username)
}

func (suite *HistoryServiceTestSuite) TestRecord_AfterCloseIsDropped() {
	svc := services.NewHistoryService(suite.store, 1)
	svc.Close()

	suite.NotPanics(func() {
		svc.Record(suite.ctx, domain.HistoryEvent{EventType: domain.EventCreateUser})
	})
	svc.Close()
	suite.Empty(suite.store.historyEvents())
}

func (suite *HistoryServiceTestSuite) TestListHistory_Filters() {
	svc := services.NewHistoryService(suite.store, 8)
	defer svc.Close()
	suite.Require().NoError(suite.store.SaveHistoryEvent(suite.ctx, domain.HistoryEvent{EventID: "e1", EventType: domain.EventCreateCurrency, CurrencyName: "USD", Username: "admin"}))
	suite.Require().NoError(suite.store.SaveHistoryEvent(suite.ctx, domain.HistoryEvent{EventID: "e2", EventType: domain.EventCreateUser, Username: "admin"}))
	suite.Require().NoError(suite.store.SaveHistoryEvent(suite.ctx, domain.HistoryEvent{EventID: "e3", EventType: domain.EventUpdateCurrency, CurrencyName: "EUR", Username: "boss"}))

	all, err := svc.ListHistory(suite.ctx, domain.HistoryFilter{})
	suite.Require().NoError(err)
	suite.Len(all, 3)
	suite.Equal("e3", all[0].EventID)

	byType, err := svc.ListHistory(suite.ctx, domain.HistoryFilter{EventType: domain.EventCreateUser})
	suite.Require().NoError(err)
	suite.Require().Len(byType, 1)
	suite.Equal("e2", byType[0].EventID)

	byCurrency, err := svc.ListHistory(suite.ctx, domain.HistoryFilter{CurrencyName: "usd"})
	suite.Require().NoError(err)
	suite.Len(byCurrency, 1)

	limited, err := svc.ListHistory(suite.ctx, domain.HistoryFilter{Username: "admin", Limit: 1})
	suite.Require().NoError(err)
	suite.Len(limited, 1)
}

func (suite *HistoryServiceTestSuite) TestListHistory_UnknownEventType() {
	svc := services.NewHistoryService(suite.store, 8)
	defer svc.Close()

	_, err := svc.ListHistory(suite.ctx, domain.HistoryFilter{EventType: "login"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestHistoryService(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
