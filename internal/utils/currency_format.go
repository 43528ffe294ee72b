package utils

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// kiosk display names that differ from their ISO 4217 code
var isoAliases = map[string]string{
	"SOM": "KGS",
}

// FormatMoney formats amount with the symbol and grouping of the named currency.
// Example: 1234.5 with "USD" returns "$1,234.50".
// Names that are not ISO codes fall back to "1234.50 NAME".
func FormatMoney(amount decimal.Decimal, currencyName string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyName))
	if alias, ok := isoAliases[code]; ok {
		code = alias
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + currencyName
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
