package services

import (
	"fmt"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
)

// Reporting periods accepted by listings and analytics.
const (
	PeriodToday = "today"
	PeriodShift = "shift"
	Period3Days = "3days"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// rollingStart resolves the fixed-length periods. ok is false for any other period.
func rollingStart(period string, now time.Time) (start time.Time, ok bool) {
	switch period {
	case Period3Days:
		return now.AddDate(0, 0, -3), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, 0, -30), true
	}
	return time.Time{}, false
}

func invalidPeriod(period string, allowed ...string) error {
	return apperrors.NewValidationError("period", fmt.Sprintf("unknown period '%s', expected one of %v", period, allowed))
}
