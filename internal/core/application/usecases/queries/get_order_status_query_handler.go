package queries

import (
	"context"
	"errors"

	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"
)

// GetOrderStatusQueryHandler shows an order to its consumer, to the carrier
// recorded on its current attempt, or to an admin.
type GetOrderStatusQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderStatusQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{uowFactory: uowFactory}
}

func (h GetOrderStatusQueryHandler) Handle(ctx context.Context, query GetOrderStatusQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}
	viewer := query.Viewer()
	if err := viewer.Require("view order", principal.Consumer, principal.Carrier, principal.Admin); err != nil {
		return OrderView{}, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	if !mayView(o, viewer) {
		return OrderView{}, errs.NewUnauthorizedErrorWithCause("view order", errors.New("caller is not involved in the order"))
	}
	return newOrderView(o, viewer), nil
}

func mayView(o *order.Order, viewer principal.Principal) bool {
	switch viewer.Role() {
	case principal.Admin:
		return true
	case principal.Consumer:
		return o.ConsumerID().IsEqual(viewer.ID())
	case principal.Carrier:
		return o.InvolvedCarrier(viewer.ID())
	}
	return false
}
