package prefs

import (
	"sort"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CNY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "CHF ",
	"LKR": "Rs ",
}

// Currencies without fractional units.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
}

func AvailableCurrencies() []string {
	codes := make([]string, 0, len(currencySymbols))
	for code := range currencySymbols {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FormatAmount renders an amount with the currency's symbol, e.g.
// "$12.34". Unknown codes fall back to USD formatting.
func FormatAmount(amount decimal.Decimal, code string) string {
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = currencySymbols[DefaultCurrency]
	}
	places := int32(2)
	if zeroDecimalCurrencies[code] {
		places = 0
	}
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(places)
	}
	return symbol + amount.StringFixed(places)
}
