package order

import (
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
)

// StatusChanged is recorded by every successful transition and persisted to
// the outbox in the same transaction as the order row.
type StatusChanged struct {
	OrderID    kernel.UUID
	SchoolID   kernel.UUID
	ConsumerID kernel.UUID
	CarrierID  *kernel.UUID
	Event      Event
	From       Status
	To         Status
	ActorID    kernel.UUID
	ActorRole  principal.Role
	Attempt    int
	OccurredAt time.Time
}
