package mapping

import (
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/models"
)

// ToModelOperation converts a domain Operation to a model Operation
func ToModelOperation(d domain.Operation) models.Operation {
	return models.Operation{
		OperationID:   d.OperationID,
		OperationType: string(d.OperationType),
		CurrencyID:    d.CurrencyID,
		CurrencyName:  d.CurrencyName,
		CashierName:   d.CashierName,
		Amount:        d.Amount,
		ExchangeRate:  d.ExchangeRate,
		TotalInSom:    d.TotalInBase,
		CreatedAt:     d.CreatedAt,
		EditedBy:      d.EditedBy,
	}
}

// ToDomainOperation converts a model Operation to a domain Operation
func ToDomainOperation(m models.Operation) domain.Operation {
	return domain.Operation{
		OperationID:   m.OperationID,
		OperationType: domain.OperationType(m.OperationType),
		CurrencyID:    m.CurrencyID,
		CurrencyName:  m.CurrencyName,
		CashierName:   m.CashierName,
		Amount:        m.Amount,
		ExchangeRate:  m.ExchangeRate,
		TotalInBase:   m.TotalInSom,
		CreatedAt:     m.CreatedAt,
		EditedBy:      m.EditedBy,
	}
}
