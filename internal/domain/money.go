package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits every stored amount carries.
const MoneyPlaces = 2

// MaxAmount is the largest value a NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ParseAmount parses a positive currency amount with at most two fractional digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a decimal number", ErrInvalidOperation, s)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount rejects non-positive amounts, sub-cent precision and
// anything above MaxAmount.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if d.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amount %s exceeds %s", ErrInvalidOperation, d.String(), FormatAmount(MaxAmount))
	}
	if !d.Equal(d.Round(MoneyPlaces)) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", ErrInvalidOperation, d.String(), MoneyPlaces)
	}
	return nil
}

// FormatAmount renders d with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
