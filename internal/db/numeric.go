package db

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Numeric columns are selected as ::text and written as $n::numeric so money
// never passes through binary floating point on the way in or out.

// ParseNumeric converts a NUMERIC value selected as text.
func ParseNumeric(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric %q: %w", s, err)
	}
	return d, nil
}

// NumericArg renders an amount as a NUMERIC(10,2) parameter.
func NumericArg(d decimal.Decimal) string {
	return d.StringFixed(2)
}
