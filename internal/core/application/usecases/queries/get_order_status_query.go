package queries

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery reads one order on behalf of viewer.
type GetOrderStatusQuery struct {
	orderID kernel.UUID
	viewer  principal.Principal

	guard guard.ConstructorGuard
}

func NewGetOrderStatusQuery(orderID kernel.UUID, viewer principal.Principal) (GetOrderStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderStatusQuery{}, err
	}
	return GetOrderStatusQuery{orderID: orderID, viewer: viewer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

func (q GetOrderStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderStatusQuery) Viewer() principal.Principal {
	return q.viewer
}
