package commands

import (
	"context"
	"time"

	"dormeal/internal/core/ports"
)

// RelayOutboxCommandHandler moves status changes from the outbox to the broker.
//
// Messages are marked published only after the publisher accepted the whole
// batch, so delivery is at least once. The handler must not run concurrently
// with itself.
type RelayOutboxCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

func NewRelayOutboxCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	publisher ports.EventPublisher,
	opts ...Option,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{uowFactory: uowFactory, publisher: publisher, now: clockFrom(opts)}
}

// Handle returns how many messages were published.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	outbox := h.uowFactory.Create().OutboxRepository()
	pending, err := outbox.Pending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err = h.publisher.Publish(ctx, pending); err != nil {
		return 0, err
	}

	ids := make([]int64, 0, len(pending))
	for _, m := range pending {
		ids = append(ids, m.ID)
	}
	if err = outbox.MarkPublished(ctx, ids, h.now()); err != nil {
		return 0, err
	}
	return len(pending), nil
}
