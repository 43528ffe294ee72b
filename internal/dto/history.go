package dto

import (
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// ListHistoryParams defines query parameters for the audit log.
type ListHistoryParams struct {
	EventType domain.HistoryEventType `form:"eventType" binding:"omitempty,oneof=create_user delete_user update_user create_currency delete_currency update_currency"`
	Currency  string                  `form:"currency"`
	Username  string                  `form:"username"`
	From      *time.Time              `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int                     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string                  `form:"nextToken"`
}

// HistoryEventResponse is one audit log entry.
type HistoryEventResponse struct {
	EventID        string                  `json:"eventID"`
	EventType      domain.HistoryEventType `json:"eventType"`
	Username       string                  `json:"username,omitempty"`
	TargetUsername string                  `json:"targetUsername,omitempty"`
	CurrencyName   string                  `json:"currencyName,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
}

// ListHistoryResponse wraps a page of audit events.
type ListHistoryResponse struct {
	Events    []HistoryEventResponse `json:"events"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// ToListHistoryResponse converts events to ListHistoryResponse DTO
func ToListHistoryResponse(events []domain.HistoryEvent, nextToken string) ListHistoryResponse {
	res := make([]HistoryEventResponse, len(events))
	for i, e := range events {
		res[i] = HistoryEventResponse{
			EventID:        e.EventID,
			EventType:      e.EventType,
			Username:       e.Username,
			TargetUsername: e.TargetUsername,
			CurrencyName:   e.CurrencyName,
			Timestamp:      e.Timestamp,
		}
	}
	return ListHistoryResponse{Events: res, NextToken: nextToken}
}
