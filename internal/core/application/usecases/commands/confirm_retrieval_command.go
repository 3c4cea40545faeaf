package commands

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrConfirmRetrievalCommandIsNotConstructed = errors.New(
	"ConfirmRetrievalCommand must be created via NewConfirmRetrievalCommand constructor",
)

// ConfirmRetrievalCommand records that the bound carrier picked the order up from the restaurant.
type ConfirmRetrievalCommand struct {
	orderID kernel.UUID
	carrier principal.Principal

	guard guard.ConstructorGuard
}

func NewConfirmRetrievalCommand(orderID kernel.UUID, carrier principal.Principal) (ConfirmRetrievalCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmRetrievalCommand{}, err
	}
	return ConfirmRetrievalCommand{orderID: orderID, carrier: carrier, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmRetrievalCommand) Validate() error {
	return c.guard.Validate(ErrConfirmRetrievalCommandIsNotConstructed)
}

func (c ConfirmRetrievalCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmRetrievalCommand) Carrier() principal.Principal {
	return c.carrier
}
