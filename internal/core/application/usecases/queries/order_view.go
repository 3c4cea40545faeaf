package queries

import (
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
)

// OrderView is the read model of one order. HandoffCode is only filled for
// the order's consumer, who shows it to the carrier at drop-off.
type OrderView struct {
	ID             kernel.UUID
	SchoolID       kernel.UUID
	RestaurantID   kernel.UUID
	RestaurantName string
	Lines          []order.SnapshotLine
	Total          kernel.Money
	Status         order.Status
	Version        int64
	Attempt        int
	CarrierID      *kernel.UUID
	HandoffCode    string
	CreatedAt      time.Time
	ClaimedAt      *time.Time
	RetrievedAt    *time.Time
	ResolvedAt     *time.Time
}

func newOrderView(o *order.Order, viewer principal.Principal) OrderView {
	view := OrderView{
		ID:             o.ID(),
		SchoolID:       o.SchoolID(),
		RestaurantID:   o.RestaurantID(),
		RestaurantName: o.Snapshot().RestaurantName(),
		Lines:          o.Snapshot().Lines(),
		Total:          o.Snapshot().Total(),
		Status:         o.Status(),
		Version:        o.Version(),
		Attempt:        o.Attempt(),
		CarrierID:      o.CarrierID(),
		CreatedAt:      o.CreatedAt(),
		ClaimedAt:      o.ClaimedAt(),
		RetrievedAt:    o.RetrievedAt(),
		ResolvedAt:     o.ResolvedAt(),
	}
	if viewer.Is(principal.Consumer) && o.ConsumerID().IsEqual(viewer.ID()) {
		view.HandoffCode = o.HandoffCode()
	}
	return view
}

func newOrderViews(orders []*order.Order, viewer principal.Principal) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o, viewer))
	}
	return views
}
