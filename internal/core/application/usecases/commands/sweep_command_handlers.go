package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"
)

// StaleClaimsResult lists the stale claims found and the ones reopened.
type StaleClaimsResult struct {
	Stale    []kernel.UUID
	Reopened []kernel.UUID
}

// ReopenStaleClaimsCommandHandler finds Claimed orders older than staleAfter.
// With autoReopen it reopens them as the system principal; otherwise it only
// reports them so an admin can decide.
type ReopenStaleClaimsCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	reopen     ReopenOrderCommandHandler
	staleAfter time.Duration
	autoReopen bool
	now        func() time.Time
}

func NewReopenStaleClaimsCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	reopen ReopenOrderCommandHandler,
	staleAfter time.Duration,
	autoReopen bool,
	opts ...Option,
) ReopenStaleClaimsCommandHandler {
	return ReopenStaleClaimsCommandHandler{
		uowFactory: uowFactory,
		reopen:     reopen,
		staleAfter: staleAfter,
		autoReopen: autoReopen,
		now:        clockFrom(opts),
	}
}

func (h ReopenStaleClaimsCommandHandler) Handle(ctx context.Context, cmd ReopenStaleClaimsCommand) (StaleClaimsResult, error) {
	if err := cmd.Validate(); err != nil {
		return StaleClaimsResult{}, err
	}
	if h.staleAfter <= 0 {
		return StaleClaimsResult{}, nil
	}

	stale, err := h.uowFactory.Create().OrderRepository().
		ListByStatusBefore(ctx, order.Claimed, h.now().Add(-h.staleAfter))
	if err != nil {
		return StaleClaimsResult{}, err
	}

	result := StaleClaimsResult{Stale: orderIDs(stale)}
	if !h.autoReopen {
		return result, nil
	}

	var failures []error
	for _, id := range result.Stale {
		cmd, err := NewReopenOrderCommand(id, principal.NewSystem())
		if err != nil {
			failures = append(failures, err)
			continue
		}
		_, err = h.reopen.Handle(ctx, cmd)
		switch {
		case err == nil:
			result.Reopened = append(result.Reopened, id)
		case movedOn(err):
		default:
			failures = append(failures, fmt.Errorf("reopen %s: %w", id, err))
		}
	}
	return result, errors.Join(failures...)
}

// AutoDeliverCommandHandler marks orders delivered as the system principal
// once they have been Retrieved for longer than after. A zero window disables it.
type AutoDeliverCommandHandler struct {
	uowFactory    ports.UnitOfWorkFactory
	markDelivered MarkDeliveredCommandHandler
	after         time.Duration
	now           func() time.Time
}

func NewAutoDeliverCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	markDelivered MarkDeliveredCommandHandler,
	after time.Duration,
	opts ...Option,
) AutoDeliverCommandHandler {
	return AutoDeliverCommandHandler{
		uowFactory:    uowFactory,
		markDelivered: markDelivered,
		after:         after,
		now:           clockFrom(opts),
	}
}

// Handle returns the ids of the orders it delivered.
func (h AutoDeliverCommandHandler) Handle(ctx context.Context, cmd AutoDeliverCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if h.after <= 0 {
		return nil, nil
	}

	overdue, err := h.uowFactory.Create().OrderRepository().
		ListByStatusBefore(ctx, order.Retrieved, h.now().Add(-h.after))
	if err != nil {
		return nil, err
	}

	var delivered []kernel.UUID
	var failures []error
	for _, o := range overdue {
		cmd, err := NewMarkDeliveredCommand(o.ID(), principal.NewSystem(), "")
		if err != nil {
			failures = append(failures, err)
			continue
		}
		_, err = h.markDelivered.Handle(ctx, cmd)
		switch {
		case err == nil:
			delivered = append(delivered, o.ID())
		case movedOn(err):
		default:
			failures = append(failures, fmt.Errorf("auto-deliver %s: %w", o.ID(), err))
		}
	}
	return delivered, errors.Join(failures...)
}

// movedOn reports errors meaning another writer changed the order after it was listed.
func movedOn(err error) bool {
	return errors.Is(err, order.ErrInvalidTransition) ||
		errors.Is(err, order.ErrClaimNotStale) ||
		errors.Is(err, errs.ErrVersionConflict)
}

func orderIDs(orders []*order.Order) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids
}
