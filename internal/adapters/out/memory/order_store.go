// Package memory provides in-process adapters for local runs and tests: an
// order store with per-order locking, its outbox, a session store and a
// catalog loaded from a JSON seed file.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"dormeal/internal/adapters/out/orderevents"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/pkg/errs"
)

// slot serializes every read-modify-write of one order. No operation holds
// more than one slot lock.
type slot struct {
	mu     sync.Mutex
	record order.Record
}

// OrderStore is an in-memory ports.OrderRepository.
type OrderStore struct {
	slots  sync.Map // kernel.UUID -> *slot
	outbox *Outbox
}

func NewOrderStore(outbox *Outbox) *OrderStore {
	return &OrderStore{outbox: outbox}
}

func (s *OrderStore) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, loaded := s.slots.LoadOrStore(aggregate.ID(), &slot{record: aggregate.Record()}); loaded {
		return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("%s already exists", aggregate.ID()))
	}
	return nil
}

func (s *OrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	sl, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return order.RestoreOrder(sl.record)
}

func (s *OrderStore) CompareAndUpdate(
	_ context.Context,
	id kernel.UUID,
	expectedVersion int64,
	mutate order.Mutator,
) (*order.Order, error) {
	sl, err := s.slot(id)
	if err != nil {
		return nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.record.Version != expectedVersion {
		return nil, errs.NewVersionConflictError(id.String(), expectedVersion, sl.record.Version)
	}

	working, err := order.RestoreOrder(sl.record)
	if err != nil {
		return nil, err
	}
	if err = mutate(working); err != nil {
		return nil, err
	}

	next := working.Record()
	next.Version = expectedVersion + 1
	updated, err := order.RestoreOrder(next)
	if err != nil {
		return nil, err
	}

	if s.outbox != nil {
		messages, encodeErr := encodeEvents(working.DomainEvents())
		if encodeErr != nil {
			return nil, encodeErr
		}
		s.outbox.append(messages)
	}
	sl.record = next

	return updated, nil
}

// ListAvailable takes a fresh snapshot of the school's Created orders on every range.
func (s *OrderStore) ListAvailable(ctx context.Context, schoolID kernel.UUID) iter.Seq2[*order.Order, error] {
	return func(yield func(*order.Order, error) bool) {
		available := s.collect(func(r order.Record) bool {
			return r.Status == order.Created && r.SchoolID.IsEqual(schoolID)
		})
		slices.SortFunc(available, func(a, b order.Record) int {
			return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID.String(), b.ID.String()))
		})

		for _, r := range available {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			o, err := order.RestoreOrder(r)
			if !yield(o, err) || err != nil {
				return
			}
		}
	}
}

func (s *OrderStore) ListByStatusBefore(_ context.Context, status order.Status, cutoff time.Time) ([]*order.Order, error) {
	return s.restoreAll(s.collect(func(r order.Record) bool {
		return r.Status == status
	}), func(o *order.Order) bool {
		return o.StatusSince().Before(cutoff)
	})
}

func (s *OrderStore) ListByConsumer(_ context.Context, consumerID kernel.UUID) ([]*order.Order, error) {
	records := s.collect(func(r order.Record) bool { return r.ConsumerID.IsEqual(consumerID) })
	slices.SortFunc(records, func(a, b order.Record) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return s.restoreAll(records, nil)
}

func (s *OrderStore) ListByCarrier(_ context.Context, carrierID kernel.UUID) ([]*order.Order, error) {
	records := s.collect(func(r order.Record) bool {
		return r.Status.HoldsCarrierBinding() && r.CarrierID != nil && r.CarrierID.IsEqual(carrierID)
	})
	slices.SortFunc(records, func(a, b order.Record) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return s.restoreAll(records, nil)
}

func (s *OrderStore) CountByStatus(_ context.Context) (map[order.Status]int, error) {
	counts := make(map[order.Status]int, len(order.AllStatuses()))
	for _, r := range s.collect(nil) {
		counts[r.Status]++
	}
	return counts, nil
}

func (s *OrderStore) slot(id kernel.UUID) (*slot, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	v, ok := s.slots.Load(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return v.(*slot), nil
}

// collect copies matching records, locking one slot at a time.
func (s *OrderStore) collect(match func(order.Record) bool) []order.Record {
	var out []order.Record
	s.slots.Range(func(_, v any) bool {
		sl := v.(*slot)
		sl.mu.Lock()
		r := sl.record
		sl.mu.Unlock()
		if match == nil || match(r) {
			out = append(out, r)
		}
		return true
	})
	return out
}

func (s *OrderStore) restoreAll(records []order.Record, keep func(*order.Order) bool) ([]*order.Order, error) {
	out := make([]*order.Order, 0, len(records))
	for _, r := range records {
		o, err := order.RestoreOrder(r)
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func encodeEvents(events []order.StatusChanged) ([]outboxEntry, error) {
	out := make([]outboxEntry, 0, len(events))
	for _, ev := range events {
		msg, err := orderevents.Encode(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, outboxEntry{message: msg})
	}
	return out, nil
}
