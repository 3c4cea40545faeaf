package commands

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand closes a retrieved order. The consumer confirms receipt
// or the carrier reports drop-off with the order's handoff code, depending on
// the configured order.DeliveryPolicy.
type MarkDeliveredCommand struct {
	orderID     kernel.UUID
	actor       principal.Principal
	handoffCode string

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand builds the command. handoffCode may be empty for
// consumers, admins and the system.
func NewMarkDeliveredCommand(orderID kernel.UUID, actor principal.Principal, handoffCode string) (MarkDeliveredCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkDeliveredCommand{}, err
	}
	return MarkDeliveredCommand{
		orderID:     orderID,
		actor:       actor,
		handoffCode: handoffCode,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

func (c MarkDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c MarkDeliveredCommand) Actor() principal.Principal {
	return c.actor
}

func (c MarkDeliveredCommand) HandoffCode() string {
	return c.handoffCode
}
