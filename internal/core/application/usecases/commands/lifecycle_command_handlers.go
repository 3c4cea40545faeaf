package commands

import (
	"context"
	"time"

	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/ports"
)

// ConfirmRetrievalCommandHandler moves a Claimed order to Retrieved for its bound carrier.
type ConfirmRetrievalCommandHandler struct {
	runner transitionRunner
}

func NewConfirmRetrievalCommandHandler(uowFactory ports.UnitOfWorkFactory, opts ...Option) ConfirmRetrievalCommandHandler {
	return ConfirmRetrievalCommandHandler{runner: newTransitionRunner(uowFactory, opts)}
}

func (h ConfirmRetrievalCommandHandler) Handle(ctx context.Context, cmd ConfirmRetrievalCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	return h.runner.result(ctx, cmd.OrderID(), order.ConfirmRetrieval, func(now time.Time) order.Mutator {
		return order.ConfirmRetrievalBy(cmd.Carrier(), now)
	})
}

// MarkDeliveredCommandHandler closes a Retrieved order under the configured delivery policy.
type MarkDeliveredCommandHandler struct {
	runner transitionRunner
	policy order.DeliveryPolicy
}

func NewMarkDeliveredCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	policy order.DeliveryPolicy,
	opts ...Option,
) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{runner: newTransitionRunner(uowFactory, opts), policy: policy}
}

func (h MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	return h.runner.result(ctx, cmd.OrderID(), order.MarkDelivered, func(now time.Time) order.Mutator {
		return order.MarkDeliveredBy(cmd.Actor(), now, h.policy, cmd.HandoffCode())
	})
}

// ReportMissingCommandHandler moves a Retrieved order to ReportedMissing for its consumer.
type ReportMissingCommandHandler struct {
	runner transitionRunner
}

func NewReportMissingCommandHandler(uowFactory ports.UnitOfWorkFactory, opts ...Option) ReportMissingCommandHandler {
	return ReportMissingCommandHandler{runner: newTransitionRunner(uowFactory, opts)}
}

func (h ReportMissingCommandHandler) Handle(ctx context.Context, cmd ReportMissingCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	return h.runner.result(ctx, cmd.OrderID(), order.ReportMissing, func(now time.Time) order.Mutator {
		return order.ReportMissingBy(cmd.Consumer(), now)
	})
}

// ReopenOrderCommandHandler puts an order back into the available pool.
// Claimed orders are only reopened once their claim is older than staleAfter.
type ReopenOrderCommandHandler struct {
	runner     transitionRunner
	staleAfter time.Duration
}

func NewReopenOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	staleAfter time.Duration,
	opts ...Option,
) ReopenOrderCommandHandler {
	return ReopenOrderCommandHandler{runner: newTransitionRunner(uowFactory, opts), staleAfter: staleAfter}
}

func (h ReopenOrderCommandHandler) Handle(ctx context.Context, cmd ReopenOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	return h.runner.result(ctx, cmd.OrderID(), order.Reopen, func(now time.Time) order.Mutator {
		return order.ReopenBy(cmd.Actor(), now, h.staleAfter)
	})
}

// CancelOrderCommandHandler cancels a Created or Claimed order for its consumer or an admin.
type CancelOrderCommandHandler struct {
	runner transitionRunner
}

func NewCancelOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, opts ...Option) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{runner: newTransitionRunner(uowFactory, opts)}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	return h.runner.result(ctx, cmd.OrderID(), order.Cancel, func(now time.Time) order.Mutator {
		return order.CancelBy(cmd.Actor(), now)
	})
}
