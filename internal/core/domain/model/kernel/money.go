package kernel

import (
	"fmt"
	"math"

	"dormeal/internal/pkg/errs"
)

// Money is an amount in integer cents. Menu prices are never stored as floats.
type Money struct {
	cents int64
}

// NewMoney builds an amount from cents. Negative amounts are invalid.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("money", cents, 0, int64(math.MaxInt64))
	}
	return Money{cents: cents}, nil
}

// MoneyFromFloat converts a catalog price such as 5.99 into cents, rounding half away from zero.
func MoneyFromFloat(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%v is not a finite amount", amount))
	}
	return NewMoney(int64(math.Round(amount * 100)))
}

// Cents returns the raw amount.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Times returns m multiplied by a non-negative quantity.
func (m Money) Times(quantity int) Money {
	return Money{cents: m.cents * int64(quantity)}
}

// String formats the amount as dollars, e.g. "5.99".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
