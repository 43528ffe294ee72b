package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
)

// memStore is an in-memory implementation of every repository port.
// WithinTransaction serializes units of work and restores a snapshot when fn fails,
// which mirrors the row locks and rollback of the PostgreSQL implementation.
type memStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	currencies map[string]domain.Currency
	operations map[string]domain.Operation
	shifts     map[string]domain.Shift
	users      map[string]domain.User
	history    []domain.HistoryEvent

	// failures injects an error into the named method.
	failures map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		currencies: map[string]domain.Currency{},
		operations: map[string]domain.Operation{},
		shifts:     map[string]domain.Shift{},
		users:      map[string]domain.User{},
		failures:   map[string]error{},
	}
}

var (
	_ portsrepo.CurrencyRepositoryFacade  = (*memStore)(nil)
	_ portsrepo.OperationRepositoryFacade = (*memStore)(nil)
	_ portsrepo.ShiftRepositoryFacade     = (*memStore)(nil)
	_ portsrepo.UserRepositoryFacade      = (*memStore)(nil)
	_ portsrepo.HistoryRepositoryFacade   = (*memStore)(nil)
	_ portsrepo.AnalyticsReader           = (*memStore)(nil)
	_ portsrepo.TransactionManager        = (*memStore)(nil)
	_ portsrepo.LedgerTx                  = (*memStore)(nil)
)

func (m *memStore) fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = err
}

func (m *memStore) injected(method string) error {
	return m.failures[method]
}

// --- transactions ---

type memSnapshot struct {
	currencies map[string]domain.Currency
	operations map[string]domain.Operation
	shifts     map[string]domain.Shift
	users      map[string]domain.User
}

func cloneMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	snap := memSnapshot{
		currencies: cloneMap(m.currencies),
		operations: cloneMap(m.operations),
		shifts:     cloneMap(m.shifts),
		users:      cloneMap(m.users),
	}
	m.mu.RUnlock()

	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.currencies, m.operations, m.shifts, m.users = snap.currencies, snap.operations, snap.shifts, snap.users
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Currencies() portsrepo.CurrencyRepositoryFacade  { return m }
func (m *memStore) Operations() portsrepo.OperationRepositoryFacade { return m }
func (m *memStore) Shifts() portsrepo.ShiftRepositoryFacade         { return m }
func (m *memStore) Users() portsrepo.UserReader                     { return m }

// --- currencies ---

func (m *memStore) FindCurrencyByID(_ context.Context, currencyID string) (*domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.currencies[currencyID]
	if !ok || !c.Status.IsActive() {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) FindCurrencyByName(_ context.Context, name string) (*domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.currencies {
		if c.Name == name && c.Status.IsActive() {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected("ListCurrencies"); err != nil {
		return nil, err
	}
	out := []domain.Currency{}
	for _, c := range m.currencies {
		if c.Status.IsActive() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) FindCurrenciesByIDsForUpdate(_ context.Context, currencyIDs []string) (map[string]domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]domain.Currency{}
	for _, id := range currencyIDs {
		if c, ok := m.currencies[id]; ok && c.Status.IsActive() {
			out[id] = c
		}
	}
	return out, nil
}

func (m *memStore) SaveCurrency(_ context.Context, currency domain.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.currencies {
		if c.Name == currency.Name && c.Status.IsActive() {
			return apperrors.ErrDuplicate
		}
	}
	m.currencies[currency.CurrencyID] = currency
	return nil
}

func (m *memStore) RenameCurrency(_ context.Context, currencyID, name string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.currencies[currencyID]
	if !ok || !c.Status.IsActive() {
		return apperrors.ErrCurrencyNotFound
	}
	for id, other := range m.currencies {
		if id != currencyID && other.Name == name && other.Status.IsActive() {
			return apperrors.ErrDuplicate
		}
	}
	c.Name, c.LastUpdatedAt = name, updatedAt
	m.currencies[currencyID] = c
	return nil
}

func (m *memStore) UpdateCurrencyBalance(_ context.Context, currencyID string, balance decimal.Decimal, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.currencies[currencyID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if balance.IsNegative() {
		return fmt.Errorf("check constraint violated: balance of %s would be %s", c.Name, balance)
	}
	c.Balance, c.LastUpdatedAt = balance, updatedAt
	m.currencies[currencyID] = c
	return nil
}

func (m *memStore) MarkCurrencyDeleted(_ context.Context, currencyID string, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.currencies[currencyID]
	if !ok || !c.Status.IsActive() {
		return apperrors.ErrNotFound
	}
	c.Status, c.LastUpdatedAt = domain.StatusDeleted, deletedAt
	m.currencies[currencyID] = c
	return nil
}

// --- operations ---

func (m *memStore) withCurrencyName(op domain.Operation) domain.Operation {
	op.CurrencyName = m.currencies[op.CurrencyID].Name
	return op
}

func (m *memStore) FindOperationByID(_ context.Context, operationID string) (*domain.Operation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	op, ok := m.operations[operationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	op = m.withCurrencyName(op)
	return &op, nil
}

func (m *memStore) FindOperationByIDForUpdate(ctx context.Context, operationID string) (*domain.Operation, error) {
	return m.FindOperationByID(ctx, operationID)
}

func (m *memStore) ListOperationsSince(_ context.Context, from time.Time) ([]domain.Operation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Operation{}
	for _, op := range m.operations {
		if !op.CreatedAt.Before(from) {
			out = append(out, m.withCurrencyName(op))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) SaveOperation(_ context.Context, op domain.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("SaveOperation"); err != nil {
		return err
	}
	m.operations[op.OperationID] = op
	return nil
}

func (m *memStore) UpdateOperation(_ context.Context, op domain.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("UpdateOperation"); err != nil {
		return err
	}
	if _, ok := m.operations[op.OperationID]; !ok {
		return apperrors.ErrNotFound
	}
	m.operations[op.OperationID] = op
	return nil
}

// --- shifts ---

func (m *memStore) withUsername(s domain.Shift) domain.Shift {
	s.Username = ""
	if s.UserID != nil {
		s.Username = m.users[*s.UserID].Username
	}
	return s
}

func (m *memStore) FindOpenShift(_ context.Context) (*domain.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.shifts {
		if s.IsOpen() {
			s = m.withUsername(s)
			return &s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) FindOpenShiftForUpdate(ctx context.Context) (*domain.Shift, error) {
	return m.FindOpenShift(ctx)
}

func (m *memStore) ListShifts(_ context.Context, limit, offset int) ([]domain.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := []domain.Shift{}
	for _, s := range m.shifts {
		all = append(all, m.withUsername(s))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.After(all[j].StartTime) })
	if offset >= len(all) {
		return []domain.Shift{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStore) SaveShift(_ context.Context, shift domain.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift.IsOpen() {
		for _, s := range m.shifts {
			if s.IsOpen() {
				return apperrors.ErrConflict
			}
		}
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *memStore) CloseShift(_ context.Context, shiftID string, endTime time.Time, note string, changes []domain.BalanceChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[shiftID]
	if !ok || !s.IsOpen() {
		return apperrors.ErrConflict
	}
	end := endTime
	s.EndTime, s.Note, s.ChangedBalances = &end, note, changes
	m.shifts[shiftID] = s
	return nil
}

func (m *memStore) UpdateShiftUser(_ context.Context, shiftID string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[shiftID]
	if !ok {
		return apperrors.ErrNotFound
	}
	id := userID
	s.UserID = &id
	m.shifts[shiftID] = s
	return nil
}

// --- users ---

func (m *memStore) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok || !u.Status.IsActive() {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username && u.Status.IsActive() {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) FindUsers(_ context.Context, limit int, offset int) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := []domain.User{}
	for _, u := range m.users {
		if u.Status.IsActive() {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStore) SaveUser(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username && u.Status.IsActive() {
			return apperrors.ErrDuplicate
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *memStore) UpdateUser(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.UserID]; !ok {
		return apperrors.ErrNotFound
	}
	m.users[user.UserID] = user
	return nil
}

func (m *memStore) MarkUserDeleted(_ context.Context, userID string, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || !u.Status.IsActive() {
		return apperrors.ErrNotFound
	}
	u.Status, u.LastUpdatedAt = domain.StatusDeleted, deletedAt
	m.users[userID] = u
	return nil
}

// --- history ---

func (m *memStore) SaveHistoryEvent(_ context.Context, event domain.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, event)
	return nil
}

func (m *memStore) ListHistoryEvents(_ context.Context, filter domain.HistoryFilter) ([]domain.HistoryEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.HistoryEvent{}
	for i := len(m.history) - 1; i >= 0; i-- {
		e := m.history[i]
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.CurrencyName != "" && !strings.EqualFold(e.CurrencyName, filter.CurrencyName) {
			continue
		}
		if filter.Username != "" && !strings.EqualFold(e.Username, filter.Username) {
			continue
		}
		out = append(out, e)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) historyEvents() []domain.HistoryEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.HistoryEvent(nil), m.history...)
}

// --- analytics ---

func (m *memStore) GetTradeStats(_ context.Context, filter domain.TradeFilter) (*domain.TradeStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected("GetTradeStats"); err != nil {
		return nil, err
	}
	stats := &domain.TradeStats{}
	buyRates, sellRates := decimal.Zero, decimal.Zero
	for _, op := range m.operations {
		if filter.CurrencyID != "" && op.CurrencyID != filter.CurrencyID {
			continue
		}
		if op.CreatedAt.Before(filter.From) || op.CreatedAt.After(filter.To) {
			continue
		}
		if op.OperationType == domain.Buy {
			stats.BuyCount++
			stats.TotalBought = stats.TotalBought.Add(op.Amount)
			buyRates = buyRates.Add(op.ExchangeRate)
		} else {
			stats.SellCount++
			stats.TotalSold = stats.TotalSold.Add(op.Amount)
			sellRates = sellRates.Add(op.ExchangeRate)
		}
	}
	if stats.BuyCount > 0 {
		stats.AvgBuyRate = buyRates.Div(decimal.NewFromInt(stats.BuyCount))
	}
	if stats.SellCount > 0 {
		stats.AvgSellRate = sellRates.Div(decimal.NewFromInt(stats.SellCount))
	}
	return stats, nil
}

func (m *memStore) GetPeakHours(_ context.Context, from, to time.Time, limit int) ([]domain.PeakHour, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[time.Time]int64{}
	for _, op := range m.operations {
		if op.CreatedAt.Before(from) || op.CreatedAt.After(to) {
			continue
		}
		counts[op.CreatedAt.Truncate(time.Hour)]++
	}
	out := make([]domain.PeakHour, 0, len(counts))
	for h, n := range counts {
		out = append(out, domain.PeakHour{Hour: h, OperationCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OperationCount != out[j].OperationCount {
			return out[i].OperationCount > out[j].OperationCount
		}
		return out[i].Hour.Before(out[j].Hour)
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// --- fixtures ---

func (m *memStore) addCurrency(id, name, balance string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[id] = domain.Currency{
		CurrencyID: id,
		Name:       name,
		Balance:    decimal.RequireFromString(balance),
		Status:     domain.StatusActive,
	}
}

func (m *memStore) addUser(id, username string, role domain.UserRole) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = domain.User{UserID: id, Username: username, Role: role, Status: domain.StatusActive}
}

func (m *memStore) openShift(id string, userID string, start time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.Shift{ShiftID: id, StartTime: start, ChangedBalances: []domain.BalanceChange{}}
	if userID != "" {
		uid := userID
		s.UserID = &uid
	}
	m.shifts[id] = s
}

func (m *memStore) balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currencies[id].Balance
}

func (m *memStore) openShiftCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.shifts {
		if s.IsOpen() {
			n++
		}
	}
	return n
}

// testClock is a settable time source shared with the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingHistory captures recorded events synchronously.
type recordingHistory struct {
	mu     sync.Mutex
	events []domain.HistoryEvent
}

func (r *recordingHistory) Record(_ context.Context, event domain.HistoryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingHistory) recorded() []domain.HistoryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.HistoryEvent(nil), r.events...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (m *memStore) addOperation(id string, opType domain.OperationType, currencyID, amount, rate string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, r := dec(amount), dec(rate)
	m.operations[id] = domain.Operation{
		OperationID:   id,
		OperationType: opType,
		CurrencyID:    currencyID,
		Amount:        a,
		ExchangeRate:  r,
		TotalInBase:   a.Mul(r).Round(2),
		CreatedAt:     at,
	}
}

func (m *memStore) addClosedShift(id, userID string, start, end time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, e := userID, end
	m.shifts[id] = domain.Shift{ShiftID: id, UserID: &uid, StartTime: start, EndTime: &e, ChangedBalances: []domain.BalanceChange{}}
}

func (m *memStore) shift(id string) domain.Shift {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.withUsername(m.shifts[id])
}
