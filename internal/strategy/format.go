package strategy

import (
	"math"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	leadingFloat   = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	nonNumericChar = regexp.MustCompile(`[^0-9.-]+`)
)

// ParseLenient reads the leading numeric prefix of s ("12.5abc" is 12.5).
// Anything unreadable or non-finite yields 0.
func ParseLenient(s string) float64 {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(v)
}

// ParseGrouped strips grouping separators and any other non-numeric characters
// from a display string such as "1,234,567.5" before parsing it.
func ParseGrouped(s string) float64 {
	return ParseLenient(nonNumericChar.ReplaceAllString(s, ""))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatFixed renders v with exactly places fractional digits.
func FormatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', int(places), 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatGrouped renders v with en-US thousands grouping and at most three
// fractional digits, e.g. 1234567.8912 -> "1,234,567.891".
func FormatGrouped(v float64) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
