package ports

import (
	"context"
	"iter"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
)

// OrderRepository is the authoritative order store. Orders change only
// through CompareAndUpdate; there is no blind Update.
type OrderRepository interface {
	// Add persists a freshly checked-out order (Created, version 1).
	Add(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListAvailable yields the Created orders of a school, oldest first
	// (created_at, id). The sequence is lazy, finite and can be ranged over
	// again for a fresh read.
	//
	// Example:
	//   for o, err := range repo.ListAvailable(ctx, schoolID) {
	//       if err != nil {
	//           return err
	//       }
	//       fmt.Println(o.ID(), o.Snapshot().RestaurantName())
	//   }
	ListAvailable(ctx context.Context, schoolID kernel.UUID) iter.Seq2[*order.Order, error]

	// CompareAndUpdate applies mutate to a copy of the stored order and persists
	// it only if the stored version still equals expectedVersion. On success the
	// version becomes expectedVersion+1 and the order's status changes are written
	// to the outbox in the same transaction.
	//
	// Errors:
	//   - errs.ObjectNotFoundError when the order does not exist
	//   - errs.VersionConflictError when the stored version moved
	//   - the mutator's error, unchanged, when the transition is rejected (nothing is written)
	CompareAndUpdate(ctx context.Context, id kernel.UUID, expectedVersion int64, mutate order.Mutator) (*order.Order, error)

	// ListByStatusBefore returns orders in status whose entry into that status
	// (created_at, claimed_at, retrieved_at or resolved_at) is older than cutoff.
	ListByStatusBefore(ctx context.Context, status order.Status, cutoff time.Time) ([]*order.Order, error)

	// ListByConsumer returns every order of a consumer, newest first.
	ListByConsumer(ctx context.Context, consumerID kernel.UUID) ([]*order.Order, error)

	// ListByCarrier returns the orders a carrier currently holds (Claimed or Retrieved).
	ListByCarrier(ctx context.Context, carrierID kernel.UUID) ([]*order.Order, error)

	// CountByStatus returns the number of orders per status. Missing statuses count zero.
	CountByStatus(ctx context.Context) (map[order.Status]int, error)
}
