package commands

import (
	"context"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/domain/services"
	"dormeal/internal/core/ports"
)

// CreateOrderCommandHandler performs checkout. It reads the current menu,
// freezes the picked items into an order.MenuSnapshot, generates the handoff
// code and stores the order as Created, version 1.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown school, restaurant or menu
//	}
type CreateOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	catalog    ports.Catalog
	snapshots  services.SnapshotBuilder
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for checkout. Only WithClock
// applies among the options.
func NewCreateOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	catalog ports.Catalog,
	opts ...Option,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		snapshots:  services.NewSnapshotBuilder(),
		now:        clockFrom(opts),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	if err := cmd.Consumer().Require("place order", principal.Consumer); err != nil {
		return TransitionResult{}, err
	}

	if _, err := h.catalog.School(ctx, cmd.SchoolID()); err != nil {
		return TransitionResult{}, err
	}
	menu, err := h.catalog.Menu(ctx, cmd.SchoolID(), cmd.RestaurantID())
	if err != nil {
		return TransitionResult{}, err
	}
	snapshot, err := h.snapshots.Build(menu, cmd.Selections())
	if err != nil {
		return TransitionResult{}, err
	}

	created, err := order.NewOrder(order.NewOrderParams{
		ID:          kernel.NewUUID(),
		SchoolID:    cmd.SchoolID(),
		ConsumerID:  cmd.Consumer().ID(),
		Snapshot:    snapshot,
		HandoffCode: order.NewHandoffCode(),
		CreatedAt:   h.now(),
	})
	if err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	return newTransitionResult(created), nil
}
