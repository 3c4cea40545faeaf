package commands

import (
	"errors"
	"slices"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/domain/services"
	"dormeal/internal/pkg/errs"
	"dormeal/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand is a consumer's checkout: the items picked from one
// restaurant's menu at one school.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(consumer, schoolID, restaurantID, []services.Selection{
//	    {ItemID: "classic-burger", Quantity: 2, OptionIDs: []string{"cheese"}},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	result, err := NewCreateOrderCommandHandler(uowFactory, catalog).Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s created and awaiting a carrier", result.OrderID)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	consumer     principal.Principal
	schoolID     kernel.UUID
	restaurantID kernel.UUID
	selections   []services.Selection

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the identifiers and that at least one item was picked.
// Items and options are checked against the menu by the handler.
func NewCreateOrderCommand(
	consumer principal.Principal,
	schoolID, restaurantID kernel.UUID,
	selections []services.Selection,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		consumer: consumer,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSchoolID(schoolID),
		cmd.setRestaurantID(restaurantID),
		cmd.setSelections(selections),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Consumer() principal.Principal {
	return c.consumer
}

func (c CreateOrderCommand) SchoolID() kernel.UUID {
	return c.schoolID
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Selections returns a copy of the picked items.
func (c CreateOrderCommand) Selections() []services.Selection {
	out := slices.Clone(c.selections)
	for i := range out {
		out[i].OptionIDs = slices.Clone(out[i].OptionIDs)
	}
	return out
}

func (c *CreateOrderCommand) setSchoolID(schoolID kernel.UUID) error {
	if err := schoolID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("schoolId", err)
	}

	c.schoolID = schoolID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantId", err)
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setSelections(selections []services.Selection) error {
	if len(selections) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	c.selections = slices.Clone(selections)
	return nil
}
