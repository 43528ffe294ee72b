package mapping

import (
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/models"
)

// ToModelBalanceChanges converts domain balance changes to their JSONB representation.
// The result is never nil so it always serializes as an array.
func ToModelBalanceChanges(ds []domain.BalanceChange) []models.BalanceChange {
	ms := make([]models.BalanceChange, len(ds))
	for i, d := range ds {
		ms[i] = models.BalanceChange(d)
	}
	return ms
}

// ToDomainShift converts a model Shift to a domain Shift
func ToDomainShift(m models.Shift) domain.Shift {
	changes := make([]domain.BalanceChange, len(m.ChangedBalances))
	for i, c := range m.ChangedBalances {
		changes[i] = domain.BalanceChange(c)
	}
	return domain.Shift{
		ShiftID:         m.ShiftID,
		UserID:          m.UserID,
		Username:        deref(m.Username),
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		Note:            m.Note,
		ChangedBalances: changes,
	}
}
