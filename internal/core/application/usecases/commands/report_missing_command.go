package commands

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrReportMissingCommandIsNotConstructed = errors.New(
	"ReportMissingCommand must be created via NewReportMissingCommand constructor",
)

// ReportMissingCommand lets the consumer report that a retrieved order never arrived.
type ReportMissingCommand struct {
	orderID  kernel.UUID
	consumer principal.Principal

	guard guard.ConstructorGuard
}

func NewReportMissingCommand(orderID kernel.UUID, consumer principal.Principal) (ReportMissingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReportMissingCommand{}, err
	}
	return ReportMissingCommand{orderID: orderID, consumer: consumer, guard: guard.NewConstructorGuard()}, nil
}

func (c ReportMissingCommand) Validate() error {
	return c.guard.Validate(ErrReportMissingCommandIsNotConstructed)
}

func (c ReportMissingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReportMissingCommand) Consumer() principal.Principal {
	return c.consumer
}
