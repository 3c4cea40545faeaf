package commands

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand asks to bind an available order to a carrier.
//
// Example:
//
//	cmd, err := NewClaimOrderCommand(orderID, carrier)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrClaimLost) {
//	    // another carrier won the race
//	}
type ClaimOrderCommand struct {
	orderID kernel.UUID
	carrier principal.Principal

	guard guard.ConstructorGuard
}

func NewClaimOrderCommand(orderID kernel.UUID, carrier principal.Principal) (ClaimOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ClaimOrderCommand{}, err
	}
	return ClaimOrderCommand{orderID: orderID, carrier: carrier, guard: guard.NewConstructorGuard()}, nil
}

func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ClaimOrderCommand) Carrier() principal.Principal {
	return c.carrier
}
