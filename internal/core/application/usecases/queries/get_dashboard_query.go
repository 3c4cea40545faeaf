package queries

import (
	"errors"

	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/guard"
)

var ErrGetDashboardQueryIsNotConstructed = errors.New(
	"GetDashboardQuery must be created via NewGetDashboardQuery constructor",
)

// GetDashboardQuery builds the landing page of a signed-in user.
type GetDashboardQuery struct {
	viewer principal.Principal

	guard guard.ConstructorGuard
}

func NewGetDashboardQuery(viewer principal.Principal) GetDashboardQuery {
	return GetDashboardQuery{viewer: viewer, guard: guard.NewConstructorGuard()}
}

func (q GetDashboardQuery) Validate() error {
	return q.guard.Validate(ErrGetDashboardQueryIsNotConstructed)
}

func (q GetDashboardQuery) Viewer() principal.Principal {
	return q.viewer
}
