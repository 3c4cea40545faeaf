package ports

import (
	"context"
	"time"

	"dormeal/internal/core/domain/model/kernel"
)

// OutboxMessage is a persisted order status change waiting to be published.
type OutboxMessage struct {
	ID         int64
	OrderID    kernel.UUID
	Event      string
	Payload    []byte
	OccurredAt time.Time
}

// OutboxRepository exposes the status-change outbox filled by CompareAndUpdate.
type OutboxRepository interface {
	// Pending returns up to limit unpublished messages, oldest first.
	Pending(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkPublished flags messages as delivered to the broker.
	MarkPublished(ctx context.Context, ids []int64, at time.Time) error
}

// EventPublisher delivers outbox messages to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, messages []OutboxMessage) error
}
