/*
currency.go - Money formatting for cost metrics

PURPOSE:
  Cost metrics are stored as plain numbers with a per-record currency
  code; this file turns them into display strings. Uses decimal for the
  rounding so a PYG total never shows phantom centimos.

CONVENTIONS:
  - Unknown codes fall back to the code itself as the symbol
  - PYG/CLP/JPY are zero-decimal in everyday pricing; everything else
    shows two decimals
  - Undefined amounts (nil) render as "-"
*/
package fcr

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols maps ISO codes to display symbols.
var currencySymbols = map[string]string{
	"PYG": "₲",
	"USD": "$",
	"BRL": "R$",
	"ARS": "AR$",
	"UYU": "$U",
	"PEN": "S/",
	"BOB": "Bs",
	"COP": "$",
	"CLP": "$",
	"MXN": "$",
	"PAB": "B/.",
	"EUR": "€",
	"GBP": "£",
}

// currencyDecimalsMap lists the codes that price without decimals.
var currencyDecimalsMap = map[string]int32{
	"PYG": 0,
	"CLP": 0,
	"JPY": 0,
}

// CurrencySymbol returns the display symbol, the code itself when unknown.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code
}

// CurrencyDecimals returns the decimal places used for a code.
func CurrencyDecimals(code string) int32 {
	if d, ok := currencyDecimalsMap[code]; ok {
		return d
	}
	return 2
}

// FormatMoney renders an amount in the given currency, "-" when the
// amount is undefined.
func FormatMoney(amount *float64, code string) string {
	if amount == nil {
		return "-"
	}
	return FormatMoneyValue(*amount, code)
}

// FormatMoneyValue renders a concrete amount in the given currency.
func FormatMoneyValue(amount float64, code string) string {
	dec := CurrencyDecimals(code)
	fixed := decimal.NewFromFloat(amount).StringFixed(dec)
	return CurrencySymbol(code) + " " + groupThousands(fixed)
}

// groupThousands inserts commas into the integer part of a fixed-point
// decimal string, e.g. "1234567.89" -> "1,234,567.89".
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteString(fracPart)
	return b.String()
}
