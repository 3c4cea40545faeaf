package order

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"dormeal/internal/pkg/errs"
)

const handoffCodeLength = 4

// NewHandoffCode returns a random 4-digit code the consumer shows the carrier at drop-off.
func NewHandoffCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		panic(fmt.Errorf("crypto/rand unavailable: %w", err))
	}
	return fmt.Sprintf("%04d", n.Int64())
}

// ValidateHandoffCode accepts exactly four ASCII digits.
func ValidateHandoffCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("handoffCode")
	}
	if len(code) != handoffCodeLength {
		return errs.NewValueIsInvalidErrorWithCause("handoffCode", fmt.Errorf("want %d digits", handoffCodeLength))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause("handoffCode", fmt.Errorf("%q is not a digit", r))
		}
	}
	return nil
}
