package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"dormeal/internal/core/domain/model/catalog"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/pkg/errs"
)

//go:embed seed.json
var defaultSeed []byte

type menuKey struct {
	school     kernel.UUID
	restaurant kernel.UUID
}

// Catalog is a read-only ports.Catalog held in memory.
type Catalog struct {
	schools     []catalog.School
	restaurants map[kernel.UUID][]catalog.Restaurant
	menus       map[menuKey]catalog.Menu
}

func NewCatalog(seed catalog.Seed) *Catalog {
	c := &Catalog{
		schools:     slices.Clone(seed.Schools),
		restaurants: make(map[kernel.UUID][]catalog.Restaurant),
		menus:       make(map[menuKey]catalog.Menu, len(seed.Menus)),
	}
	slices.SortFunc(c.schools, func(a, b catalog.School) int { return strings.Compare(a.Name, b.Name) })
	for _, r := range seed.Restaurants {
		c.restaurants[r.SchoolID] = append(c.restaurants[r.SchoolID], r)
	}
	for _, m := range seed.Menus {
		c.menus[menuKey{school: m.SchoolID, restaurant: m.RestaurantID}] = m
	}
	return c
}

// LoadSeed reads a catalog seed file; an empty path loads the built-in seed.
func LoadSeed(path string) (catalog.Seed, error) {
	data := defaultSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return catalog.Seed{}, fmt.Errorf("read catalog seed: %w", err)
		}
	}

	var seed catalog.Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return catalog.Seed{}, fmt.Errorf("decode catalog seed: %w", err)
	}
	return seed, nil
}

// NewCatalogFromFile builds a Catalog from LoadSeed(path).
func NewCatalogFromFile(path string) (*Catalog, error) {
	seed, err := LoadSeed(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(seed), nil
}

func (c *Catalog) Schools(context.Context) ([]catalog.School, error) {
	return slices.Clone(c.schools), nil
}

func (c *Catalog) School(_ context.Context, schoolID kernel.UUID) (catalog.School, error) {
	i := slices.IndexFunc(c.schools, func(s catalog.School) bool { return s.ID.IsEqual(schoolID) })
	if i < 0 {
		return catalog.School{}, errs.NewObjectNotFoundError("school", schoolID.String())
	}
	return c.schools[i], nil
}

func (c *Catalog) Restaurants(ctx context.Context, schoolID kernel.UUID) ([]catalog.Restaurant, error) {
	if _, err := c.School(ctx, schoolID); err != nil {
		return nil, err
	}
	return slices.Clone(c.restaurants[schoolID]), nil
}

func (c *Catalog) Menu(_ context.Context, schoolID, restaurantID kernel.UUID) (catalog.Menu, error) {
	m, ok := c.menus[menuKey{school: schoolID, restaurant: restaurantID}]
	if !ok {
		return catalog.Menu{}, errs.NewObjectNotFoundError("menu", restaurantID.String())
	}
	return cloneMenu(m), nil
}

func cloneMenu(m catalog.Menu) catalog.Menu {
	m.Sections = slices.Clone(m.Sections)
	for i := range m.Sections {
		m.Sections[i].Items = slices.Clone(m.Sections[i].Items)
		for j := range m.Sections[i].Items {
			item := &m.Sections[i].Items[j]
			item.OptionGroups = slices.Clone(item.OptionGroups)
			for k := range item.OptionGroups {
				item.OptionGroups[k].Options = slices.Clone(item.OptionGroups[k].Options)
			}
		}
	}
	return m
}
