package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the display prefix used for every price.
var DefaultCurrency = "R$"

// RoundCents rounds price to two places, half away from zero.
func RoundCents(price decimal.Decimal) decimal.Decimal {
	return price.Round(2)
}

func ToCents(price decimal.Decimal) int64 {
	return RoundCents(price).Shift(2).IntPart()
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatAmount renders amount as "<currency> 1234.56".
func FormatAmount(currency string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}

func FormatCents(currency string, cents int64) string {
	return FormatAmount(currency, FromCents(cents))
}

func FormatPrice(currency string, price decimal.Decimal) string {
	return FormatAmount(currency, price)
}
