package http

import (
	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/application/usecases/queries"
	"dormeal/internal/core/domain/model/catalog"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toKernelUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func optionalUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	out := id.Bytes()
	return &out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toPrincipal(p principal.Principal) servers.Principal {
	out := servers.Principal{Role: servers.PrincipalRole(p.Role().String())}
	if !p.IsAnonymous() {
		id := p.ID().Bytes()
		out.Id = &id
	}
	return out
}

func toTransition(r commands.TransitionResult) servers.OrderTransition {
	return servers.OrderTransition{
		OrderId: r.OrderID.Bytes(),
		Status:  r.Status.String(),
		Version: r.Version,
	}
}

func toOrder(v queries.OrderView) servers.Order {
	lines := make([]servers.OrderLine, 0, len(v.Lines))
	for _, l := range v.Lines {
		options := make([]servers.OrderLineOption, 0, len(l.Options))
		for _, o := range l.Options {
			options = append(options, servers.OrderLineOption{Id: o.ID, Name: o.Name, PriceCents: o.Price.Cents()})
		}
		lines = append(lines, servers.OrderLine{
			ItemId:         l.ItemID,
			Name:           l.Name,
			Options:        options,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPrice.Cents(),
		})
	}
	return servers.Order{
		Attempt:        v.Attempt,
		CarrierId:      optionalUUID(v.CarrierID),
		ClaimedAt:      v.ClaimedAt,
		CreatedAt:      v.CreatedAt,
		HandoffCode:    optionalString(v.HandoffCode),
		Id:             v.ID.Bytes(),
		Lines:          lines,
		ResolvedAt:     v.ResolvedAt,
		RestaurantId:   v.RestaurantID.Bytes(),
		RestaurantName: v.RestaurantName,
		RetrievedAt:    v.RetrievedAt,
		SchoolId:       v.SchoolID.Bytes(),
		Status:         v.Status.String(),
		TotalCents:     v.Total.Cents(),
		Version:        v.Version,
	}
}

func toOrders(views []queries.OrderView) []servers.Order {
	out := make([]servers.Order, 0, len(views))
	for _, v := range views {
		out = append(out, toOrder(v))
	}
	return out
}

func toDashboard(d queries.DashboardView) servers.Dashboard {
	out := servers.Dashboard{Role: d.Role.String()}
	if d.Counts != nil {
		counts := make(map[string]int, len(d.Counts))
		for status, n := range d.Counts {
			counts[status.String()] = n
		}
		out.Counts = &counts
	} else {
		orders := toOrders(d.Orders)
		out.Orders = &orders
	}
	return out
}

func toSchools(schools []catalog.School) []servers.School {
	out := make([]servers.School, 0, len(schools))
	for _, s := range schools {
		out = append(out, servers.School{Id: s.ID.Bytes(), Name: s.Name})
	}
	return out
}

func toRestaurants(restaurants []catalog.Restaurant) []servers.Restaurant {
	out := make([]servers.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, servers.Restaurant{
			Id:       r.ID.Bytes(),
			ImageUrl: optionalString(r.ImageURL),
			Name:     r.Name,
			SchoolId: r.SchoolID.Bytes(),
		})
	}
	return out
}

func toMenu(m catalog.Menu) servers.Menu {
	sections := make([]servers.MenuSection, 0, len(m.Sections))
	for _, s := range m.Sections {
		items := make([]servers.MenuItem, 0, len(s.Items))
		for _, it := range s.Items {
			item := servers.MenuItem{
				Description: optionalString(it.Description),
				Id:          it.ID,
				Name:        it.Name,
				PriceCents:  it.PriceCents,
			}
			if len(it.OptionGroups) > 0 {
				groups := make([]servers.OptionGroup, 0, len(it.OptionGroups))
				for _, g := range it.OptionGroups {
					options := make([]servers.MenuOption, 0, len(g.Options))
					for _, o := range g.Options {
						options = append(options, servers.MenuOption{Id: o.ID, Name: o.Name, PriceCents: o.PriceCents})
					}
					groups = append(groups, servers.OptionGroup{
						Id:        g.ID,
						MaxSelect: g.MaxSelect,
						MinSelect: g.MinSelect,
						Name:      g.Name,
						Options:   options,
					})
				}
				item.OptionGroups = &groups
			}
			items = append(items, item)
		}
		sections = append(sections, servers.MenuSection{Items: items, Name: s.Name})
	}
	return servers.Menu{
		RestaurantId:   m.RestaurantID.Bytes(),
		RestaurantName: m.RestaurantName,
		SchoolId:       m.SchoolID.Bytes(),
		Sections:       sections,
	}
}
