package order

import (
	"fmt"
	"strings"

	"dormeal/internal/pkg/errs"
)

// DeliveryPolicy decides which party may mark a Retrieved order delivered.
// Admins and the system may always do so.
type DeliveryPolicy int

const (
	// ConsumerConfirms lets the order's consumer confirm receipt.
	ConsumerConfirms DeliveryPolicy = iota
	// CarrierReports lets the bound carrier report drop-off with the handoff code.
	CarrierReports
	// EitherParty allows both.
	EitherParty
)

var policyNames = map[DeliveryPolicy]string{
	ConsumerConfirms: "consumer",
	CarrierReports:   "carrier",
	EitherParty:      "any",
}

func (p DeliveryPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseDeliveryPolicy reads consumer, carrier or any. Empty means consumer.
func ParseDeliveryPolicy(s string) (DeliveryPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ConsumerConfirms, nil
	}
	for policy, name := range policyNames {
		if name == s {
			return policy, nil
		}
	}
	return ConsumerConfirms, errs.NewValueIsInvalidErrorWithCause("deliveryPolicy",
		fmt.Errorf("%q is not one of consumer, carrier, any", s))
}

func (p DeliveryPolicy) AllowsConsumer() bool {
	return p == ConsumerConfirms || p == EitherParty
}

func (p DeliveryPolicy) AllowsCarrier() bool {
	return p == CarrierReports || p == EitherParty
}
