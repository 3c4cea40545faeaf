package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"
)

// ErrClaimLost means every claim attempt lost a version race to another writer.
var ErrClaimLost = errors.New("claim lost to a concurrent update")

// ClaimOrderCommandHandler coordinates concurrent claims so that at most one
// carrier wins an order.
//
// Each attempt reads the order and compare-and-updates it against the observed
// version. A version conflict starts a new attempt. The claim fails with
// order.ErrOrderNotAvailable if the first read finds the order past Created,
// and with ErrClaimLost if a retry does or the budget is spent. No lock is
// held between attempts.
//
// Example:
//
//	handler := NewClaimOrderCommandHandler(uowFactory, WithMaxAttempts(cfg.ClaimMaxAttempts))
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrOrderNotAvailable), errors.Is(err, ErrClaimLost):
//	    // 409, pick another order
//	case err != nil:
//	    return err
//	}
//	fmt.Println(result.Status, result.Version) // claimed 2
type ClaimOrderCommandHandler struct {
	runner transitionRunner
}

func NewClaimOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, opts ...Option) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{runner: newTransitionRunner(uowFactory, opts)}
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	claimed, err := h.runner.run(ctx, cmd.OrderID(), transition{
		span:  "order.claim",
		event: order.Claim,
		check: func(o *order.Order, attempt int) error {
			if err := cmd.Carrier().Require("claim order", principal.Carrier); err != nil {
				return err
			}
			switch {
			case o.Status() == order.Created:
				return nil
			case attempt > 1:
				return fmt.Errorf("%w: order is %s", ErrClaimLost, o.Status())
			default:
				return order.ErrOrderNotAvailable
			}
		},
		mutate: func(now time.Time) order.Mutator {
			return order.ClaimBy(cmd.Carrier(), now)
		},
	})
	if errors.Is(err, errs.ErrVersionConflict) {
		return TransitionResult{}, fmt.Errorf("%w: %v", ErrClaimLost, err)
	}
	if err != nil {
		return TransitionResult{}, err
	}
	return newTransitionResult(claimed), nil
}
