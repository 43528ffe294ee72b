package services

import (
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The caller owns container.History and must Close it on shutdown.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// History first: every administrative service records through it.
	container.History = NewHistoryService(repos.HistoryRepo, cfg.HistoryQueueSize, options...)

	container.User = NewUserService(repos.UserRepo, container.History, options...)
	container.Currency = NewCurrencyService(repos.TxManager, repos.CurrencyRepo, repos.UserRepo, container.History, cfg.BaseCurrencyName, options...)
	container.Ledger = NewLedgerService(repos.TxManager, repos.OperationRepo, repos.CurrencyRepo, repos.ShiftRepo, cfg.BaseCurrencyName, options...)
	container.Shift = NewShiftService(repos.TxManager, repos.ShiftRepo, repos.UserRepo, repos.AnalyticsRepo, container.History, options...)
	container.Analytics = NewAnalyticsService(repos.AnalyticsRepo, repos.CurrencyRepo, repos.ShiftRepo, cfg.BaseCurrencyName, options...)
	container.Token = NewTokenService(cfg, options...)

	return container
}
