package accounting

import (
	"fmt"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of fraction digits allowed for amounts and balances.
	AmountScale int32 = 2
	// RateScale is the number of fraction digits allowed for exchange rates.
	RateScale int32 = 4
)

var (
	// MaxAmount is the exclusive upper bound of an operation amount (NUMERIC(12,2)).
	MaxAmount = decimal.New(1, 10)
	// MaxRate is the exclusive upper bound of an exchange rate (NUMERIC(12,4)).
	MaxRate = decimal.New(1, 8)
	// MaxBalance is the exclusive upper bound of a stored balance or total (NUMERIC(15,2)).
	MaxBalance = decimal.New(1, 13)
)

// Balances holds the two currency balances touched by a single operation.
type Balances struct {
	Base   decimal.Decimal
	Traded decimal.Decimal
}

// CalculateTotal returns amount × rate rounded half away from zero to 2 places.
func CalculateTotal(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(AmountScale)
}

// FitsScale reports whether d has at most scale fraction digits.
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// ValidateAmount checks that amount is positive, has at most 2 fraction digits and is below MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return apperrors.NewValidationError("amount", "must be greater than zero")
	case !FitsScale(amount, AmountScale):
		return apperrors.NewValidationError("amount", "must have at most 2 decimal places")
	case amount.GreaterThanOrEqual(MaxAmount):
		return apperrors.NewValidationError("amount", "exceeds the maximum allowed value")
	}
	return nil
}

// ValidateRate checks that rate is positive, has at most 4 fraction digits and is below MaxRate.
func ValidateRate(rate decimal.Decimal) error {
	switch {
	case !rate.IsPositive():
		return apperrors.NewValidationError("exchange_rate", "must be greater than zero")
	case !FitsScale(rate, RateScale):
		return apperrors.NewValidationError("exchange_rate", "must have at most 4 decimal places")
	case rate.GreaterThanOrEqual(MaxRate):
		return apperrors.NewValidationError("exchange_rate", "exceeds the maximum allowed value")
	}
	return nil
}

// ValidateLeftover checks a counted shift-close balance.
func ValidateLeftover(leftover decimal.Decimal) error {
	if leftover.IsNegative() {
		return apperrors.NewValidationError("leftover", "must not be negative")
	}
	if !FitsScale(leftover, AmountScale) {
		return apperrors.NewValidationError("leftover", "must have at most 2 decimal places")
	}
	if leftover.GreaterThanOrEqual(MaxBalance) {
		return apperrors.NewValidationError("leftover", "exceeds the maximum allowed value")
	}
	return nil
}

// ValidateTotal rejects an amount × rate product the total_in_base column cannot hold.
func ValidateTotal(total decimal.Decimal) error {
	if total.GreaterThanOrEqual(MaxBalance) {
		return apperrors.NewValidationError("amount", "total in base currency exceeds the maximum allowed value")
	}
	return nil
}

// ApplyOperation returns the balances after the kiosk performs opType.
//
// Buy: the kiosk pays total in base currency and receives amount of the traded currency.
// Sell: the kiosk hands out amount of the traded currency and receives total in base currency.
// Sufficiency and the balance ceiling are checked before anything changes;
// baseName/tradedName only label the error.
func ApplyOperation(opType domain.OperationType, b Balances, amount, total decimal.Decimal, baseName, tradedName string) (Balances, error) {
	var next Balances
	switch opType {
	case domain.Buy:
		if b.Base.LessThan(total) {
			return b, apperrors.NewInsufficientFundsError(baseName, b.Base, total)
		}
		next = Balances{Base: b.Base.Sub(total), Traded: b.Traded.Add(amount)}
	case domain.Sell:
		if b.Traded.LessThan(amount) {
			return b, apperrors.NewInsufficientFundsError(tradedName, b.Traded, amount)
		}
		next = Balances{Base: b.Base.Add(total), Traded: b.Traded.Sub(amount)}
	default:
		return b, apperrors.NewValidationError("operation_type", fmt.Sprintf("unknown operation type '%s'", opType))
	}
	if err := CheckBalanceCeiling(next, baseName, tradedName); err != nil {
		return b, err
	}
	return next, nil
}

// CheckBalanceCeiling rejects a result that a balance column cannot store.
func CheckBalanceCeiling(b Balances, baseName, tradedName string) error {
	if b.Base.GreaterThanOrEqual(MaxBalance) {
		return apperrors.NewValidationError("amount", fmt.Sprintf("%s balance would exceed the maximum allowed value", baseName))
	}
	if b.Traded.GreaterThanOrEqual(MaxBalance) {
		return apperrors.NewValidationError("amount", fmt.Sprintf("%s balance would exceed the maximum allowed value", tradedName))
	}
	return nil
}

// ReverseOperation undoes a stored operation using its recorded amount and total.
// The result may be temporarily negative; the re-application step validates the final state.
func ReverseOperation(op domain.Operation, b Balances) Balances {
	if op.OperationType == domain.Buy {
		return Balances{Base: b.Base.Add(op.TotalInBase), Traded: b.Traded.Sub(op.Amount)}
	}
	return Balances{Base: b.Base.Sub(op.TotalInBase), Traded: b.Traded.Add(op.Amount)}
}

// CheckNonNegative rejects a result that would leave either balance below zero.
// The error reports the balance before the change and the net amount debited.
func CheckNonNegative(before, after Balances, baseName, tradedName string) error {
	if after.Base.IsNegative() {
		return apperrors.NewInsufficientFundsError(baseName, before.Base, before.Base.Sub(after.Base))
	}
	if after.Traded.IsNegative() {
		return apperrors.NewInsufficientFundsError(tradedName, before.Traded, before.Traded.Sub(after.Traded))
	}
	return nil
}

// UnroundedProfit is min(bought, sold) × (avg sell rate − avg buy rate).
// This is an approximation, not FIFO/LIFO cost basis.
func UnroundedProfit(s domain.TradeStats) decimal.Decimal {
	return decimal.Min(s.TotalBought, s.TotalSold).Mul(s.AvgSellRate.Sub(s.AvgBuyRate))
}

// Profit is UnroundedProfit rounded to 2 places.
func Profit(s domain.TradeStats) decimal.Decimal {
	return UnroundedProfit(s).Round(AmountScale)
}
