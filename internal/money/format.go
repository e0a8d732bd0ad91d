// Package money holds the pure price, stock and URL helpers shared by the
// catalog and cart views.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const DefaultCurrency = "USD"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
	"INR": "₹",
	"CNY": "CN¥",
	"KRW": "₩",
	"MXN": "MX$",
}

// FormatPrice renders amount the way an en-US storefront shows money:
// symbol, thousands separators and the currency's minor-unit precision.
// Unknown codes fall back to "<CODE> 1,234.56".
func FormatPrice(amount float64, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		code = DefaultCurrency
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "NaN"
	}

	digits := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ := currency.Standard.Rounding(unit)
		digits = scale
	}

	d := decimal.NewFromFloat(amount)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	fixed := d.StringFixed(int32(digits))
	head, tail, _ := strings.Cut(fixed, ".")
	body := thousandSep(head)
	if tail != "" {
		body += "." + tail
	}

	prefix := code + " "
	if sym, ok := symbols[code]; ok {
		prefix = sym
	}
	if neg && fixed != zeroFixed(digits) {
		return "-" + prefix + body
	}
	return prefix + body
}

func zeroFixed(digits int) string {
	if digits <= 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", digits)
}

func thousandSep(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
