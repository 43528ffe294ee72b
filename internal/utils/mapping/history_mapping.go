package mapping

import (
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/models"
)

// ToDomainHistoryEvent converts a model HistoryEvent to a domain HistoryEvent
func ToDomainHistoryEvent(m models.HistoryEvent) domain.HistoryEvent {
	return domain.HistoryEvent{
		EventID:        m.EventID,
		EventType:      domain.HistoryEventType(m.EventType),
		UserID:         m.UserID,
		Username:       deref(m.Username),
		TargetUserID:   m.TargetUserID,
		TargetUsername: deref(m.TargetUsername),
		CurrencyID:     m.CurrencyID,
		CurrencyName:   deref(m.CurrencyName),
		Timestamp:      m.Timestamp,
	}
}
