package models

import "time"

// HistoryEvent is a row of history_events joined with the names it references.
type HistoryEvent struct {
	EventID        string    `db:"event_id"`
	EventType      string    `db:"event_type"`
	UserID         *string   `db:"user_id"`
	Username       *string   `db:"username"`
	TargetUserID   *string   `db:"target_user_id"`
	TargetUsername *string   `db:"target_username"`
	CurrencyID     *string   `db:"currency_id"`
	CurrencyName   *string   `db:"currency_name"`
	Timestamp      time.Time `db:"timestamp"`
}
