package queries

import (
	"context"

	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
)

// DashboardView depends on the viewer's role:
//   - consumer: every own order, newest first
//   - carrier: the orders currently held (Claimed or Retrieved)
//   - admin: the number of orders per status
type DashboardView struct {
	Role   principal.Role
	Orders []OrderView
	Counts map[order.Status]int
}

type GetDashboardQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetDashboardQueryHandler(uowFactory ports.UnitOfWorkFactory) GetDashboardQueryHandler {
	return GetDashboardQueryHandler{uowFactory: uowFactory}
}

func (h GetDashboardQueryHandler) Handle(ctx context.Context, query GetDashboardQuery) (DashboardView, error) {
	if err := query.Validate(); err != nil {
		return DashboardView{}, err
	}
	viewer := query.Viewer()
	if err := viewer.Require("view dashboard", principal.Consumer, principal.Carrier, principal.Admin); err != nil {
		return DashboardView{}, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	view := DashboardView{Role: viewer.Role()}
	switch viewer.Role() {
	case principal.Consumer:
		orders, err := repo.ListByConsumer(ctx, viewer.ID())
		if err != nil {
			return DashboardView{}, err
		}
		view.Orders = newOrderViews(orders, viewer)
	case principal.Carrier:
		orders, err := repo.ListByCarrier(ctx, viewer.ID())
		if err != nil {
			return DashboardView{}, err
		}
		view.Orders = newOrderViews(orders, viewer)
	default:
		counts, err := repo.CountByStatus(ctx)
		if err != nil {
			return DashboardView{}, err
		}
		view.Counts = counts
	}
	return view, nil
}
