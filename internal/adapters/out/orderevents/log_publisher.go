package orderevents

import (
	"context"

	"dormeal/internal/core/ports"

	"go.uber.org/zap"
)

// LogPublisher writes status changes to the log. Used when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPublisher{log: log.With(zap.String("component", "order_events"))}
}

func (p *LogPublisher) Publish(_ context.Context, msgs []ports.OutboxMessage) error {
	for _, m := range msgs {
		p.log.Info("order status changed",
			zap.Int64("outboxId", m.ID),
			zap.String("orderId", m.OrderID.String()),
			zap.String("event", m.Event),
			zap.ByteString("payload", m.Payload),
		)
	}
	return nil
}
