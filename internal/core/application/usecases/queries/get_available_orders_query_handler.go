package queries

import (
	"context"

	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
)

// GetAvailableOrdersQueryHandler reads Created orders oldest first, the order
// carriers are expected to pick them up in. The list is a snapshot: an order
// in it may already be claimed by the time a carrier acts on it.
type GetAvailableOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetAvailableOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{uowFactory: uowFactory}
}

func (h GetAvailableOrdersQueryHandler) Handle(ctx context.Context, query GetAvailableOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	viewer := query.Viewer()
	if err := viewer.Require("list available orders", principal.Carrier, principal.Admin); err != nil {
		return nil, err
	}

	views := make([]OrderView, 0)
	for o, err := range h.uowFactory.Create().OrderRepository().ListAvailable(ctx, query.SchoolID()) {
		if err != nil {
			return nil, err
		}
		views = append(views, newOrderView(o, viewer))
	}
	return views, nil
}
