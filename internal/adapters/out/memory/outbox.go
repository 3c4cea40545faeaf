package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"dormeal/internal/core/ports"
)

type outboxEntry struct {
	message     ports.OutboxMessage
	publishedAt *time.Time
}

// Outbox is an in-memory ports.OutboxRepository filled by OrderStore.
type Outbox struct {
	mu      sync.Mutex
	nextID  int64
	entries []outboxEntry
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) append(entries []outboxEntry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range entries {
		o.nextID++
		e.message.ID = o.nextID
		o.entries = append(o.entries, e)
	}
}

func (o *Outbox) Pending(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []ports.OutboxMessage
	for _, e := range o.entries {
		if len(out) == limit {
			break
		}
		if e.publishedAt == nil {
			msg := e.message
			msg.Payload = slices.Clone(msg.Payload)
			out = append(out, msg)
		}
	}
	return out, nil
}

func (o *Outbox) MarkPublished(_ context.Context, ids []int64, at time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.entries {
		if slices.Contains(ids, o.entries[i].message.ID) && o.entries[i].publishedAt == nil {
			t := at.UTC()
			o.entries[i].publishedAt = &t
		}
	}
	return nil
}
