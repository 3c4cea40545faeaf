package ports

import (
	"context"

	"dormeal/internal/core/domain/model/catalog"
	"dormeal/internal/core/domain/model/kernel"
)

// Catalog is the read-only school / restaurant / menu source owned by another system.
// Unknown ids return errs.ObjectNotFoundError.
type Catalog interface {
	Schools(ctx context.Context) ([]catalog.School, error)
	School(ctx context.Context, schoolID kernel.UUID) (catalog.School, error)
	Restaurants(ctx context.Context, schoolID kernel.UUID) ([]catalog.Restaurant, error)
	Menu(ctx context.Context, schoolID, restaurantID kernel.UUID) (catalog.Menu, error)
}
