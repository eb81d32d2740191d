package sheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// numberCleaner removes the group separators the accounting system writes
// into numbers that reach us as text.
var numberCleaner = strings.NewReplacer(
	"\u00a0", "", // no-break space
	"\u202f", "", // narrow no-break space
	" ", "",
)

// ParseNumber converts a raw cell value into a nullable decimal.
// An empty cell is null. A comma is accepted as the decimal separator.
func ParseNumber(raw string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	s = numberCleaner.Replace(s)
	s = strings.Replace(s, ",", ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// OrZero returns the value of a nullable decimal, treating null as zero.
func OrZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}
