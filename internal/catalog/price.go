package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// CurrencySymbol prefixes stored prices, e.g. "$19.99".
const CurrencySymbol = "$"

// MaxUnitPrice bounds the whole units of a single price so cart totals stay
// well inside int64.
const MaxUnitPrice int64 = 1_000_000_000

// ParsePrice strips leading currency symbols and parses the remaining amount.
// Negative amounts and amounts above MaxUnitPrice are rejected.
func ParsePrice(s string) (decimal.Decimal, error) {
	raw := strings.TrimLeft(strings.TrimSpace(s), CurrencySymbol)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, s)
	}
	if d.Truncate(0).GreaterThan(decimal.NewFromInt(MaxUnitPrice)) {
		return decimal.Zero, fmt.Errorf("%w: %q exceeds %d", ErrInvalidPrice, s, MaxUnitPrice)
	}
	return d, nil
}

// UnitPrice returns the whole currency units of a price. Fractions are
// truncated: "$19.99" is 19.
func UnitPrice(s string) (int64, error) {
	d, err := ParsePrice(s)
	if err != nil {
		return 0, err
	}
	return d.IntPart(), nil
}
