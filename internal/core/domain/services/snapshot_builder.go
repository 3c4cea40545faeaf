package services

import (
	"errors"
	"fmt"

	"dormeal/internal/core/domain/model/catalog"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/pkg/errs"
)

const maxLineQuantity = 20

var (
	// ErrItemNotOnMenu is returned when a selection names an item the menu does not offer.
	ErrItemNotOnMenu = errors.New("item is not on the menu")

	// ErrOptionNotOnItem is returned when a selection names an option the item does not offer.
	ErrOptionNotOnItem = errors.New("option is not offered for the item")
)

// Selection is one line of a consumer's checkout.
type Selection struct {
	ItemID    string
	Quantity  int
	OptionIDs []string
}

// SnapshotBuilder turns checkout selections into a frozen menu snapshot.
//
// Business rules:
//   - every item and option must exist on the current menu
//   - quantity is between 1 and 20
//   - each option group's MinSelect/MaxSelect is honored, and an option is picked at most once
//   - prices are copied from the menu at this moment and never re-read
//
// Example:
//
//	menu, _ := catalog.Menu(ctx, schoolID, restaurantID)
//	snapshot, err := services.NewSnapshotBuilder().Build(menu, []services.Selection{
//	    {ItemID: "classic-burger", Quantity: 2, OptionIDs: []string{"cheese"}},
//	})
type SnapshotBuilder struct{}

func NewSnapshotBuilder() SnapshotBuilder {
	return SnapshotBuilder{}
}

// Build validates every selection and returns all problems joined.
func (b SnapshotBuilder) Build(menu catalog.Menu, selections []Selection) (order.MenuSnapshot, error) {
	if len(selections) == 0 {
		return order.MenuSnapshot{}, errs.NewValueIsRequiredError("items")
	}

	lines := make([]order.SnapshotLine, 0, len(selections))
	var problems []error
	for i, sel := range selections {
		line, err := b.line(menu, sel)
		if err != nil {
			problems = append(problems, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		lines = append(lines, line)
	}
	if err := errors.Join(problems...); err != nil {
		return order.MenuSnapshot{}, err
	}

	return order.NewMenuSnapshot(menu.RestaurantID, menu.RestaurantName, lines)
}

func (b SnapshotBuilder) line(menu catalog.Menu, sel Selection) (order.SnapshotLine, error) {
	item, ok := menu.Item(sel.ItemID)
	if !ok {
		return order.SnapshotLine{}, fmt.Errorf("%w: %q", ErrItemNotOnMenu, sel.ItemID)
	}
	if sel.Quantity < 1 || sel.Quantity > maxLineQuantity {
		return order.SnapshotLine{}, errs.NewValueIsOutOfRangeError("quantity", sel.Quantity, 1, maxLineQuantity)
	}
	price, err := item.Price()
	if err != nil {
		return order.SnapshotLine{}, err
	}

	picked := make(map[string]int, len(item.OptionGroups))
	seen := make(map[string]bool, len(sel.OptionIDs))
	options := make([]order.SnapshotOption, 0, len(sel.OptionIDs))
	for _, optionID := range sel.OptionIDs {
		if seen[optionID] {
			return order.SnapshotLine{}, errs.NewValueIsInvalidErrorWithCause("options", fmt.Errorf("%q picked twice", optionID))
		}
		seen[optionID] = true

		group, option, found := item.Option(optionID)
		if !found {
			return order.SnapshotLine{}, fmt.Errorf("%w: %q on %q", ErrOptionNotOnItem, optionID, item.ID)
		}
		optionPrice, priceErr := option.Price()
		if priceErr != nil {
			return order.SnapshotLine{}, priceErr
		}
		picked[group.ID]++
		options = append(options, order.SnapshotOption{ID: option.ID, Name: option.Name, Price: optionPrice})
	}

	for _, group := range item.OptionGroups {
		n := picked[group.ID]
		if n < group.MinSelect || (group.MaxSelect > 0 && n > group.MaxSelect) {
			maxSelect := any(group.MaxSelect)
			if group.MaxSelect == 0 {
				maxSelect = "unbounded"
			}
			return order.SnapshotLine{}, errs.NewValueIsOutOfRangeError("options of "+group.Name, n, group.MinSelect, maxSelect)
		}
	}

	return order.SnapshotLine{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: price,
		Quantity:  sel.Quantity,
		Options:   options,
	}, nil
}
