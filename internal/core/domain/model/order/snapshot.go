package order

import (
	"errors"
	"fmt"
	"slices"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/pkg/errs"
	"dormeal/internal/pkg/guard"
)

var ErrMenuSnapshotIsNotConstructed = errors.New("MenuSnapshot must be created via NewMenuSnapshot constructor")

// SnapshotOption is a chosen add-on or choice, with the price it had at checkout.
type SnapshotOption struct {
	ID    string
	Name  string
	Price kernel.Money
}

// SnapshotLine is one ordered item as it was priced at checkout.
type SnapshotLine struct {
	ItemID    string
	Name      string
	UnitPrice kernel.Money
	Quantity  int
	Options   []SnapshotOption
}

// Total is (unit price + option prices) * quantity.
func (l SnapshotLine) Total() kernel.Money {
	unit := l.UnitPrice
	for _, opt := range l.Options {
		unit = unit.Add(opt.Price)
	}
	return unit.Times(l.Quantity)
}

func (l SnapshotLine) clone() SnapshotLine {
	l.Options = slices.Clone(l.Options)
	return l
}

// MenuSnapshot is the frozen copy of what the consumer ordered. It never
// follows later catalog edits: disputes are settled against it.
type MenuSnapshot struct {
	restaurantID   kernel.UUID
	restaurantName string
	lines          []SnapshotLine
	total          kernel.Money
	guard          guard.ConstructorGuard
}

// NewMenuSnapshot deep-copies lines and computes the total.
func NewMenuSnapshot(restaurantID kernel.UUID, restaurantName string, lines []SnapshotLine) (MenuSnapshot, error) {
	if err := restaurantID.Validate(); err != nil {
		return MenuSnapshot{}, err
	}
	if restaurantName == "" {
		return MenuSnapshot{}, errs.NewValueIsRequiredError("restaurantName")
	}
	if len(lines) == 0 {
		return MenuSnapshot{}, errs.NewValueIsRequiredError("lines")
	}

	snapshot := MenuSnapshot{
		restaurantID:   restaurantID,
		restaurantName: restaurantName,
		lines:          make([]SnapshotLine, 0, len(lines)),
		guard:          guard.NewConstructorGuard(),
	}

	var problems []error
	for i, line := range lines {
		if line.ItemID == "" {
			problems = append(problems, errs.NewValueIsRequiredError(fmt.Sprintf("lines[%d].itemId", i)))
		}
		if line.Quantity <= 0 {
			problems = append(problems, errs.NewValueIsOutOfRangeError(fmt.Sprintf("lines[%d].quantity", i), line.Quantity, 1, "unbounded"))
		}
		snapshot.lines = append(snapshot.lines, line.clone())
		snapshot.total = snapshot.total.Add(line.Total())
	}
	if err := errors.Join(problems...); err != nil {
		return MenuSnapshot{}, err
	}

	return snapshot, nil
}

func (s MenuSnapshot) Validate() error {
	return s.guard.Validate(ErrMenuSnapshotIsNotConstructed)
}

func (s MenuSnapshot) RestaurantID() kernel.UUID {
	return s.restaurantID
}

func (s MenuSnapshot) RestaurantName() string {
	return s.restaurantName
}

// Lines returns a deep copy; mutating it does not affect the snapshot.
func (s MenuSnapshot) Lines() []SnapshotLine {
	out := make([]SnapshotLine, len(s.lines))
	for i, line := range s.lines {
		out[i] = line.clone()
	}
	return out
}

func (s MenuSnapshot) Total() kernel.Money {
	return s.total
}

// Equal compares snapshots field by field.
func (s MenuSnapshot) Equal(other MenuSnapshot) bool {
	if !s.restaurantID.IsEqual(other.restaurantID) || s.restaurantName != other.restaurantName || s.total != other.total {
		return false
	}
	return slices.EqualFunc(s.lines, other.lines, func(a, b SnapshotLine) bool {
		return a.ItemID == b.ItemID && a.Name == b.Name && a.UnitPrice == b.UnitPrice &&
			a.Quantity == b.Quantity && slices.Equal(a.Options, b.Options)
	})
}
