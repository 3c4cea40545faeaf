package queries

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery lists the orders of a school a carrier can claim.
//
// Example:
//
//	query, err := NewGetAvailableOrdersQuery(schoolID, carrier)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetAvailableOrdersQuery struct {
	schoolID kernel.UUID
	viewer   principal.Principal

	guard guard.ConstructorGuard
}

func NewGetAvailableOrdersQuery(schoolID kernel.UUID, viewer principal.Principal) (GetAvailableOrdersQuery, error) {
	if err := schoolID.Validate(); err != nil {
		return GetAvailableOrdersQuery{}, err
	}
	return GetAvailableOrdersQuery{schoolID: schoolID, viewer: viewer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

func (q GetAvailableOrdersQuery) SchoolID() kernel.UUID {
	return q.schoolID
}

func (q GetAvailableOrdersQuery) Viewer() principal.Principal {
	return q.viewer
}
