// Package catalog holds the read-only school, restaurant and menu reference data.
// The catalog is owned by another system; orders never reference it after
// checkout, they carry an order.MenuSnapshot instead.
package catalog

import (
	"slices"

	"dormeal/internal/core/domain/model/kernel"
)

type School struct {
	ID   kernel.UUID `json:"id"`
	Name string      `json:"name"`
}

type Restaurant struct {
	ID       kernel.UUID `json:"id"`
	SchoolID kernel.UUID `json:"schoolId"`
	Name     string      `json:"name"`
	ImageURL string      `json:"imageUrl,omitempty"`
}

// Menu is the current menu of one restaurant at one school.
type Menu struct {
	RestaurantID   kernel.UUID `json:"restaurantId"`
	SchoolID       kernel.UUID `json:"schoolId"`
	RestaurantName string      `json:"restaurantName"`
	Sections       []Section   `json:"sections"`
}

type Section struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	PriceCents   int64         `json:"priceCents"`
	OptionGroups []OptionGroup `json:"optionGroups,omitempty"`
}

// OptionGroup is a set of add-ons or choices for an item. MinSelect/MaxSelect
// bound how many options of the group may be picked; MaxSelect 0 means unbounded.
type OptionGroup struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MinSelect int      `json:"minSelect"`
	MaxSelect int      `json:"maxSelect"`
	Options   []Option `json:"options"`
}

type Option struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// Item finds an item by id across sections.
func (m Menu) Item(id string) (Item, bool) {
	for _, section := range m.Sections {
		if i := slices.IndexFunc(section.Items, func(it Item) bool { return it.ID == id }); i >= 0 {
			return section.Items[i], true
		}
	}
	return Item{}, false
}

// Option finds an option of the item together with its group.
func (it Item) Option(id string) (OptionGroup, Option, bool) {
	for _, group := range it.OptionGroups {
		if i := slices.IndexFunc(group.Options, func(o Option) bool { return o.ID == id }); i >= 0 {
			return group, group.Options[i], true
		}
	}
	return OptionGroup{}, Option{}, false
}

// Price converts cents into kernel.Money.
func (it Item) Price() (kernel.Money, error) {
	return kernel.NewMoney(it.PriceCents)
}

func (o Option) Price() (kernel.Money, error) {
	return kernel.NewMoney(o.PriceCents)
}

// Seed is a full catalog dump as read from a JSON seed file.
type Seed struct {
	Schools     []School     `json:"schools"`
	Restaurants []Restaurant `json:"restaurants"`
	Menus       []Menu       `json:"menus"`
}
