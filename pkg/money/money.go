// Package money parses and formats Brazilian-style monetary input.
//
// Operators type amounts free-form ("1.234,56", "R$ 50", "1200.50"), so
// parsing is forgiving: anything that cannot be read as a number becomes
// zero rather than an error, and negative input is clamped to the floor.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse normalizes raw operator input into a non-negative decimal amount.
//
// Separator rules follow Brazilian convention: when both "." and "," appear,
// the period is the thousands separator and the comma the decimal mark; a
// lone comma is a decimal mark. Unparseable input yields zero.
func Parse(raw string) decimal.Decimal {
	return ParseMin(raw, decimal.Zero)
}

// ParseMin parses like Parse but clamps the result to min.
func ParseMin(raw string, min decimal.Decimal) decimal.Decimal {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" {
		return min
	}

	hasComma := strings.Contains(cleaned, ",")
	hasPeriod := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasPeriod:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return min
	}
	if value.LessThan(min) {
		return min
	}
	return value.Round(2)
}

// Format renders an amount as "R$ 1.234,56".
func Format(value decimal.Decimal) string {
	fixed := value.Round(2).StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return "R$ " + sign + b.String() + "," + fracPart
}

func stripNonNumeric(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
