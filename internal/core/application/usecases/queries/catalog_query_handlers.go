package queries

import (
	"context"

	"dormeal/internal/core/domain/model/catalog"
	"dormeal/internal/core/ports"
)

// The catalog is public: browsing schools and menus needs no session.

type GetSchoolsQueryHandler struct {
	catalog ports.Catalog
}

func NewGetSchoolsQueryHandler(catalog ports.Catalog) GetSchoolsQueryHandler {
	return GetSchoolsQueryHandler{catalog: catalog}
}

func (h GetSchoolsQueryHandler) Handle(ctx context.Context, query GetSchoolsQuery) ([]catalog.School, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.catalog.Schools(ctx)
}

type GetRestaurantsForSchoolQueryHandler struct {
	catalog ports.Catalog
}

func NewGetRestaurantsForSchoolQueryHandler(catalog ports.Catalog) GetRestaurantsForSchoolQueryHandler {
	return GetRestaurantsForSchoolQueryHandler{catalog: catalog}
}

func (h GetRestaurantsForSchoolQueryHandler) Handle(
	ctx context.Context,
	query GetRestaurantsForSchoolQuery,
) ([]catalog.Restaurant, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.catalog.Restaurants(ctx, query.SchoolID())
}

type GetMenuQueryHandler struct {
	catalog ports.Catalog
}

func NewGetMenuQueryHandler(catalog ports.Catalog) GetMenuQueryHandler {
	return GetMenuQueryHandler{catalog: catalog}
}

func (h GetMenuQueryHandler) Handle(ctx context.Context, query GetMenuQuery) (catalog.Menu, error) {
	if err := query.Validate(); err != nil {
		return catalog.Menu{}, err
	}
	return h.catalog.Menu(ctx, query.SchoolID(), query.RestaurantID())
}
