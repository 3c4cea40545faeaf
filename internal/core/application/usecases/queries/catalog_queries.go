package queries

import (
	"errors"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/pkg/guard"
)

var (
	ErrGetSchoolsQueryIsNotConstructed = errors.New(
		"GetSchoolsQuery must be created via NewGetSchoolsQuery constructor",
	)
	ErrGetRestaurantsForSchoolQueryIsNotConstructed = errors.New(
		"GetRestaurantsForSchoolQuery must be created via NewGetRestaurantsForSchoolQuery constructor",
	)
	ErrGetMenuQueryIsNotConstructed = errors.New(
		"GetMenuQuery must be created via NewGetMenuQuery constructor",
	)
)

// GetSchoolsQuery lists every school a guest can order for.
type GetSchoolsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetSchoolsQuery() GetSchoolsQuery {
	return GetSchoolsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetSchoolsQuery) Validate() error {
	return q.guard.Validate(ErrGetSchoolsQueryIsNotConstructed)
}

// GetRestaurantsForSchoolQuery lists the restaurants delivering to a school.
type GetRestaurantsForSchoolQuery struct {
	schoolID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetRestaurantsForSchoolQuery(schoolID kernel.UUID) (GetRestaurantsForSchoolQuery, error) {
	if err := schoolID.Validate(); err != nil {
		return GetRestaurantsForSchoolQuery{}, err
	}
	return GetRestaurantsForSchoolQuery{schoolID: schoolID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRestaurantsForSchoolQuery) Validate() error {
	return q.guard.Validate(ErrGetRestaurantsForSchoolQueryIsNotConstructed)
}

func (q GetRestaurantsForSchoolQuery) SchoolID() kernel.UUID {
	return q.schoolID
}

// GetMenuQuery reads the current menu of a restaurant at a school.
type GetMenuQuery struct {
	schoolID     kernel.UUID
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetMenuQuery(schoolID, restaurantID kernel.UUID) (GetMenuQuery, error) {
	if err := errors.Join(schoolID.Validate(), restaurantID.Validate()); err != nil {
		return GetMenuQuery{}, err
	}
	return GetMenuQuery{schoolID: schoolID, restaurantID: restaurantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetMenuQuery) Validate() error {
	return q.guard.Validate(ErrGetMenuQueryIsNotConstructed)
}

func (q GetMenuQuery) SchoolID() kernel.UUID {
	return q.schoolID
}

func (q GetMenuQuery) RestaurantID() kernel.UUID {
	return q.restaurantID
}
