// Package money converts between stored minor units and display amounts.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const minorExponent = 2

var hundred = decimal.NewFromInt(100)

// ToDecimal turns minor units into a decimal amount.
func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorExponent)
}

// ParseMinor reads a display amount ("1234.5", "1.234,50", "$ 99") into minor units,
// rounding half away from zero to the cent. Negative amounts are rejected, and so is
// a lone dot followed by exactly three digits ("1.234"), which reads as a thousands
// separator in es-AR and as a decimal mark elsewhere.
func ParseMinor(raw string) (int64, error) {
	if ambiguousThousands(raw) {
		return 0, fmt.Errorf("amount %q is ambiguous: use a decimal comma or two decimals", raw)
	}
	cleaned := normalize(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if value.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", raw)
	}
	return value.Mul(hundred).Round(0).IntPart(), nil
}

// Plain renders minor units as "1234.50", used in spreadsheets.
func Plain(minor int64) string {
	return ToDecimal(minor).StringFixed(minorExponent)
}

// Format renders minor units for documents: "$ 1.234,50".
func Format(minor int64, symbol string) string {
	negative := minor < 0
	if negative {
		minor = -minor
	}
	fixed := ToDecimal(minor).StringFixed(minorExponent)
	whole, cents, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "," + cents
	if negative {
		out = "-" + out
	}
	if symbol == "" {
		return out
	}
	return symbol + " " + out
}

func ambiguousThousands(raw string) bool {
	s := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(raw), "$"), " ", "")
	if strings.Contains(s, ",") || strings.Count(s, ".") != 1 {
		return false
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) != 3 || whole == "" || strings.TrimLeft(whole, "0") == "" {
		return false
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalize strips currency symbols and resolves the decimal separator. When both
// separators appear, the last one is the decimal mark.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}
