package domain

import "time"

// HistoryEventType enumerates the administrative actions that are audited.
type HistoryEventType string

const (
	EventCreateUser     HistoryEventType = "create_user"
	EventDeleteUser     HistoryEventType = "delete_user"
	EventUpdateUser     HistoryEventType = "update_user"
	EventCreateCurrency HistoryEventType = "create_currency"
	EventDeleteCurrency HistoryEventType = "delete_currency"
	EventUpdateCurrency HistoryEventType = "update_currency"
)

// Valid reports whether t is one of the known event types.
func (t HistoryEventType) Valid() bool {
	switch t {
	case EventCreateUser, EventDeleteUser, EventUpdateUser,
		EventCreateCurrency, EventDeleteCurrency, EventUpdateCurrency:
		return true
	}
	return false
}

// HistoryEvent is an append-only audit record. All references are nullable.
type HistoryEvent struct {
	EventID        string           `json:"eventID"`
	EventType      HistoryEventType `json:"eventType"`
	UserID         *string          `json:"userID"`
	Username       string           `json:"username"`
	TargetUserID   *string          `json:"targetUserID"`
	TargetUsername string           `json:"targetUsername"`
	CurrencyID     *string          `json:"currencyID"`
	CurrencyName   string           `json:"currencyName"`
	Timestamp      time.Time        `json:"timestamp"`
}

// HistoryFilter narrows a history listing. Zero values mean "any".
type HistoryFilter struct {
	EventType    HistoryEventType
	CurrencyName string
	Username     string
	From         *time.Time
	Limit        int
	// Keyset cursor: only events strictly older than (CursorTime, CursorID) are returned.
	CursorTime *time.Time
	CursorID   string
}
