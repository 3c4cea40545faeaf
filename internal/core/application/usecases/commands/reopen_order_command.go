package commands

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrReopenOrderCommandIsNotConstructed = errors.New(
	"ReopenOrderCommand must be created via NewReopenOrderCommand constructor",
)

// ReopenOrderCommand returns a reported-missing or stale claimed order to the available pool.
type ReopenOrderCommand struct {
	orderID kernel.UUID
	actor   principal.Principal

	guard guard.ConstructorGuard
}

func NewReopenOrderCommand(orderID kernel.UUID, actor principal.Principal) (ReopenOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReopenOrderCommand{}, err
	}
	return ReopenOrderCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c ReopenOrderCommand) Validate() error {
	return c.guard.Validate(ErrReopenOrderCommandIsNotConstructed)
}

func (c ReopenOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReopenOrderCommand) Actor() principal.Principal {
	return c.actor
}
