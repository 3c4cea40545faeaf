// Package kafka publishes order status changes. Messages are keyed by order
// id so every change of one order lands on the same partition, in order.
package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

const (
	eventHeader    = "event"
	outboxIDHeader = "outbox-id"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewWriter builds a writer that waits for all in-sync replicas and hashes keys to partitions.
func NewWriter(brokers []string, topic string) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}, nil
}

func NewPublisher(writer MessageWriter) (*Publisher, error) {
	if writer == nil {
		return nil, errs.NewValueIsRequiredError("writer")
	}
	return &Publisher{writer: writer}, nil
}

// Publish writes the batch synchronously. A failed batch is retried whole, so
// consumers may see a message twice and should dedupe on the outbox-id header.
func (p *Publisher) Publish(ctx context.Context, msgs []ports.OutboxMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	batch := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		batch = append(batch, kafka.Message{
			Key:   []byte(m.OrderID.String()),
			Value: m.Payload,
			Time:  m.OccurredAt,
			Headers: []kafka.Header{
				{Key: eventHeader, Value: []byte(m.Event)},
				{Key: outboxIDHeader, Value: []byte(strconv.FormatInt(m.ID, 10))},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("publish %d order events: %w", len(batch), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
