package commands

import (
	"context"
	"errors"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxAttempts bounds how often a command re-reads and retries after a version conflict.
const DefaultMaxAttempts = 3

const tracerName = "dormeal/commands"

// TransitionResult is what every order-mutating command returns.
type TransitionResult struct {
	OrderID kernel.UUID
	Status  order.Status
	Version int64
}

func newTransitionResult(o *order.Order) TransitionResult {
	return TransitionResult{OrderID: o.ID(), Status: o.Status(), Version: o.Version()}
}

// Option tunes the handlers that run order transitions.
type Option func(*transitionRunner)

// WithMaxAttempts sets the retry budget; values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(r *transitionRunner) {
		if n >= 1 {
			r.maxAttempts = n
		}
	}
}

// WithClock replaces time.Now as the source of transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *transitionRunner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTracer replaces the global otel tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *transitionRunner) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

type transitionRunner struct {
	uowFactory  ports.UnitOfWorkFactory
	maxAttempts int
	now         func() time.Time
	tracer      trace.Tracer
}

func newTransitionRunner(uowFactory ports.UnitOfWorkFactory, opts []Option) transitionRunner {
	r := transitionRunner{
		uowFactory:  uowFactory,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// transition describes one attempt: check runs against the freshly read order
// before the mutator is built, mutate builds the mutator for this attempt.
// attempt counts from 1, so attempt > 1 means an earlier attempt lost a race.
type transition struct {
	span   string
	event  order.Event
	check  func(o *order.Order, attempt int) error
	mutate func(now time.Time) order.Mutator
}

// run reads the order and applies the transition with compare-and-update,
// starting over after a version conflict until the budget is spent. The last
// conflict is returned when every attempt lost.
func (r transitionRunner) run(ctx context.Context, orderID kernel.UUID, t transition) (*order.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		updated, err := r.attempt(ctx, orderID, attempt, t)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, errs.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r transitionRunner) attempt(ctx context.Context, orderID kernel.UUID, n int, t transition) (_ *order.Order, err error) {
	ctx, span := r.tracer.Start(ctx, t.span, trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("order.event", t.event.String()),
		attribute.Int("attempt", n),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uow := r.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("order.version", current.Version()),
		attribute.String("order.status", current.Status().String()),
	)
	if t.check != nil {
		if err = t.check(current, n); err != nil {
			return nil, err
		}
	}

	updated, err := orderRepo.CompareAndUpdate(ctx, orderID, current.Version(), t.mutate(r.now()))
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status.new", updated.Status().String()))
	return updated, nil
}

// result runs a plain lifecycle transition under the shared "order.transition" span.
func (r transitionRunner) result(
	ctx context.Context,
	orderID kernel.UUID,
	event order.Event,
	mutate func(now time.Time) order.Mutator,
) (TransitionResult, error) {
	updated, err := r.run(ctx, orderID, transition{span: "order.transition", event: event, mutate: mutate})
	if err != nil {
		return TransitionResult{}, err
	}
	return newTransitionResult(updated), nil
}

// clockFrom resolves the WithClock option for handlers that do not run transitions.
func clockFrom(opts []Option) func() time.Time {
	return newTransitionRunner(nil, opts).now
}
