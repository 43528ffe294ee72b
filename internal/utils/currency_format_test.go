package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatMoney(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "12.00 Gold", FormatMoney(decimal.NewFromInt(12), "Gold"))
}
