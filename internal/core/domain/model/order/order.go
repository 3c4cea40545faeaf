package order

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/errs"
)

// Order is the aggregate root of the claim-and-lifecycle coordinator.
//
// Order follows these invariants:
//   - id, school, restaurant, consumer and the menu snapshot never change
//   - a carrier is actively bound (ActiveCarrier) iff the status is Claimed or Retrieved
//   - the last carrier is kept for audit after delivery, cancellation or a missing report,
//     and is cleared only by Reopen
//   - claimed/retrieved/resolved timestamps are set once per delivery attempt
//   - version is owned by the store and grows by one on every persisted mutation
//
// Orders are never mutated in place by callers: transitions are expressed as
// Mutator values and applied through the store's compare-and-update.
type Order struct {
	id          kernel.UUID
	schoolID    kernel.UUID
	consumerID  kernel.UUID
	snapshot    MenuSnapshot
	handoffCode string

	status    Status
	carrierID *kernel.UUID
	attempt   int

	createdAt   time.Time
	claimedAt   *time.Time
	retrievedAt *time.Time
	resolvedAt  *time.Time

	version int64

	events        []StatusChanged
	isConstructed bool
}

// Mutator is a guarded transition. It is applied to a private copy of the
// stored order; returning an error discards the copy.
type Mutator func(o *Order) error

// NewOrderParams are the checkout facts frozen into a new order.
type NewOrderParams struct {
	ID          kernel.UUID
	SchoolID    kernel.UUID
	ConsumerID  kernel.UUID
	Snapshot    MenuSnapshot
	HandoffCode string
	CreatedAt   time.Time
}

// NewOrder creates an order in Created status at version 1, attempt 1.
//
// Example:
//
//	snapshot, _ := order.NewMenuSnapshot(restaurantID, "Burger Haven", lines)
//	o, err := order.NewOrder(order.NewOrderParams{
//	    ID:          kernel.NewUUID(),
//	    SchoolID:    schoolID,
//	    ConsumerID:  consumer.ID(),
//	    Snapshot:    snapshot,
//	    HandoffCode: order.NewHandoffCode(),
//	    CreatedAt:   time.Now(),
//	})
func NewOrder(params NewOrderParams) (*Order, error) {
	o := &Order{
		status:        Created,
		attempt:       1,
		version:       1,
		createdAt:     params.CreatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIdentity(params.ID, params.SchoolID, params.ConsumerID),
		o.setSnapshot(params.Snapshot),
		o.setHandoffCode(params.HandoffCode),
		requireTime("createdAt", params.CreatedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Record is the persisted shape of an order. Stores round-trip it through RestoreOrder.
type Record struct {
	ID           kernel.UUID
	SchoolID     kernel.UUID
	RestaurantID kernel.UUID
	ConsumerID   kernel.UUID
	Snapshot     MenuSnapshot
	HandoffCode  string
	Status       Status
	CarrierID    *kernel.UUID
	Attempt      int
	CreatedAt    time.Time
	ClaimedAt    *time.Time
	RetrievedAt  *time.Time
	ResolvedAt   *time.Time
	Version      int64
}

// RestoreOrder rebuilds an order from storage and checks every invariant.
func RestoreOrder(r Record) (*Order, error) {
	o := &Order{
		status:        r.Status,
		carrierID:     cloneUUID(r.CarrierID),
		attempt:       r.Attempt,
		createdAt:     r.CreatedAt.UTC(),
		claimedAt:     utcTime(r.ClaimedAt),
		retrievedAt:   utcTime(r.RetrievedAt),
		resolvedAt:    utcTime(r.ResolvedAt),
		version:       r.Version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIdentity(r.ID, r.SchoolID, r.ConsumerID),
		o.setSnapshot(r.Snapshot),
		o.setHandoffCode(r.HandoffCode),
		requireTime("createdAt", r.CreatedAt),
		r.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if !r.RestaurantID.IsEqual(r.Snapshot.RestaurantID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("restaurantId",
			fmt.Errorf("%s does not match snapshot restaurant %s", r.RestaurantID, r.Snapshot.RestaurantID()))
	}
	if r.Version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", r.Version))
	}
	if r.Attempt < 1 {
		return nil, errs.NewValueIsOutOfRangeError("attempt", r.Attempt, 1, "unbounded")
	}
	if err := o.validateState(); err != nil {
		return nil, err
	}

	return o, nil
}

// Record returns a detached copy of the persisted fields.
func (o *Order) Record() Record {
	return Record{
		ID:           o.id,
		SchoolID:     o.schoolID,
		RestaurantID: o.snapshot.RestaurantID(),
		ConsumerID:   o.consumerID,
		Snapshot:     o.snapshot,
		HandoffCode:  o.handoffCode,
		Status:       o.status,
		CarrierID:    cloneUUID(o.carrierID),
		Attempt:      o.attempt,
		CreatedAt:    o.createdAt,
		ClaimedAt:    cloneTime(o.claimedAt),
		RetrievedAt:  cloneTime(o.retrievedAt),
		ResolvedAt:   cloneTime(o.resolvedAt),
		Version:      o.version,
	}
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) SchoolID() kernel.UUID     { return o.schoolID }
func (o *Order) RestaurantID() kernel.UUID { return o.snapshot.RestaurantID() }
func (o *Order) ConsumerID() kernel.UUID   { return o.consumerID }
func (o *Order) Snapshot() MenuSnapshot    { return o.snapshot }
func (o *Order) HandoffCode() string       { return o.handoffCode }
func (o *Order) Status() Status            { return o.status }
func (o *Order) Attempt() int              { return o.attempt }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) ClaimedAt() *time.Time     { return cloneTime(o.claimedAt) }
func (o *Order) RetrievedAt() *time.Time   { return cloneTime(o.retrievedAt) }
func (o *Order) ResolvedAt() *time.Time    { return cloneTime(o.resolvedAt) }
func (o *Order) Version() int64            { return o.version }

// CarrierID is the last carrier bound to the current attempt, kept for audit.
func (o *Order) CarrierID() *kernel.UUID {
	return cloneUUID(o.carrierID)
}

// ActiveCarrier is the carrier currently holding the claim, nil unless Claimed or Retrieved.
func (o *Order) ActiveCarrier() *kernel.UUID {
	if !o.status.HoldsCarrierBinding() {
		return nil
	}
	return cloneUUID(o.carrierID)
}

// StatusSince is when the order entered its current status in this attempt.
// A reopened order reports its original creation time.
func (o *Order) StatusSince() time.Time {
	var at *time.Time
	switch o.status {
	case Claimed:
		at = o.claimedAt
	case Retrieved:
		at = o.retrievedAt
	case Delivered, ReportedMissing, Cancelled:
		at = o.resolvedAt
	}
	if at == nil {
		return o.createdAt
	}
	return *at
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// InvolvedCarrier reports whether carrierID is recorded on the current attempt.
func (o *Order) InvolvedCarrier(carrierID kernel.UUID) bool {
	return o.carrierID != nil && o.carrierID.IsEqual(carrierID)
}

// Claim binds carrier to a Created order.
func (o *Order) Claim(carrier principal.Principal, now time.Time) error {
	next, err := o.status.Next(Claim)
	if err != nil {
		return err
	}
	if err = carrier.Require("claim order", principal.Carrier); err != nil {
		return err
	}
	if err = setOnce(&o.claimedAt, "claimedAt", now); err != nil {
		return err
	}

	id := carrier.ID()
	o.carrierID = &id
	o.transition(Claim, next, carrier, now)
	return nil
}

// ConfirmRetrieval records that the bound carrier picked the order up.
func (o *Order) ConfirmRetrieval(carrier principal.Principal, now time.Time) error {
	next, err := o.status.Next(ConfirmRetrieval)
	if err != nil {
		return err
	}
	if err = o.requireBoundCarrier("confirm retrieval", carrier); err != nil {
		return err
	}
	if err = setOnce(&o.retrievedAt, "retrievedAt", now); err != nil {
		return err
	}

	o.transition(ConfirmRetrieval, next, carrier, now)
	return nil
}

// MarkDelivered closes a Retrieved order. Who may call it is decided by policy;
// admins and the system always may. A carrier must present the handoff code.
func (o *Order) MarkDelivered(actor principal.Principal, now time.Time, policy DeliveryPolicy, handoffCode string) error {
	next, err := o.status.Next(MarkDelivered)
	if err != nil {
		return err
	}
	if err = o.authorizeDelivery(actor, policy, handoffCode); err != nil {
		return err
	}
	if err = setOnce(&o.resolvedAt, "resolvedAt", now); err != nil {
		return err
	}

	o.transition(MarkDelivered, next, actor, now)
	return nil
}

// ReportMissing lets the consumer report non-delivery of a Retrieved order.
// The carrier id is retained for audit.
func (o *Order) ReportMissing(consumer principal.Principal, now time.Time) error {
	next, err := o.status.Next(ReportMissing)
	if err != nil {
		return err
	}
	if err = o.requireConsumer("report missing", consumer); err != nil {
		return err
	}
	if err = setOnce(&o.resolvedAt, "resolvedAt", now); err != nil {
		return err
	}

	o.transition(ReportMissing, next, consumer, now)
	return nil
}

// Reopen returns the order to the available pool and starts a new delivery attempt.
// From Claimed it is only allowed once the claim is older than staleAfter.
func (o *Order) Reopen(actor principal.Principal, now time.Time, staleAfter time.Duration) error {
	next, err := o.status.Next(Reopen)
	if err != nil {
		return err
	}
	if err = actor.Require("reopen order", principal.Admin, principal.System); err != nil {
		return err
	}
	if o.status == Claimed && (o.claimedAt == nil || now.Sub(*o.claimedAt) < staleAfter) {
		return fmt.Errorf("%w: claimed at %v, stale after %s", ErrClaimNotStale, o.claimedAt, staleAfter)
	}

	from := o.status
	o.carrierID = nil
	o.claimedAt = nil
	o.retrievedAt = nil
	o.resolvedAt = nil
	o.attempt++
	o.status = next
	o.record(Reopen, from, next, actor, now)
	return nil
}

// Cancel withdraws an order before retrieval. Only the consumer or an admin may cancel.
func (o *Order) Cancel(actor principal.Principal, now time.Time) error {
	next, err := o.status.Next(Cancel)
	if err != nil {
		return err
	}
	if !actor.IsPrivileged() {
		if err = o.requireConsumer("cancel order", actor); err != nil {
			return err
		}
	}
	if err = setOnce(&o.resolvedAt, "resolvedAt", now); err != nil {
		return err
	}

	o.transition(Cancel, next, actor, now)
	return nil
}

// DomainEvents returns the status changes recorded since the order was loaded.
func (o *Order) DomainEvents() []StatusChanged {
	out := make([]StatusChanged, len(o.events))
	copy(out, o.events)
	return out
}

// ClearDomainEvents drops recorded status changes once the store has persisted them.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

// ClaimBy, ConfirmRetrievalBy, ... adapt the transition methods to Mutator.

func ClaimBy(carrier principal.Principal, now time.Time) Mutator {
	return func(o *Order) error { return o.Claim(carrier, now) }
}

func ConfirmRetrievalBy(carrier principal.Principal, now time.Time) Mutator {
	return func(o *Order) error { return o.ConfirmRetrieval(carrier, now) }
}

func MarkDeliveredBy(actor principal.Principal, now time.Time, policy DeliveryPolicy, handoffCode string) Mutator {
	return func(o *Order) error { return o.MarkDelivered(actor, now, policy, handoffCode) }
}

func ReportMissingBy(consumer principal.Principal, now time.Time) Mutator {
	return func(o *Order) error { return o.ReportMissing(consumer, now) }
}

func ReopenBy(actor principal.Principal, now time.Time, staleAfter time.Duration) Mutator {
	return func(o *Order) error { return o.Reopen(actor, now, staleAfter) }
}

func CancelBy(actor principal.Principal, now time.Time) Mutator {
	return func(o *Order) error { return o.Cancel(actor, now) }
}

func (o *Order) transition(e Event, next Status, actor principal.Principal, now time.Time) {
	from := o.status
	o.status = next
	o.record(e, from, next, actor, now)
}

func (o *Order) record(e Event, from, to Status, actor principal.Principal, now time.Time) {
	o.events = append(o.events, StatusChanged{
		OrderID:    o.id,
		SchoolID:   o.schoolID,
		ConsumerID: o.consumerID,
		CarrierID:  cloneUUID(o.carrierID),
		Event:      e,
		From:       from,
		To:         to,
		ActorID:    actor.ID(),
		ActorRole:  actor.Role(),
		Attempt:    o.attempt,
		OccurredAt: now.UTC(),
	})
}

func (o *Order) requireBoundCarrier(action string, carrier principal.Principal) error {
	if err := carrier.Require(action, principal.Carrier); err != nil {
		return err
	}
	if active := o.ActiveCarrier(); active == nil || !active.IsEqual(carrier.ID()) {
		return errs.NewUnauthorizedErrorWithCause(action, errors.New("caller is not the bound carrier"))
	}
	return nil
}

func (o *Order) requireConsumer(action string, consumer principal.Principal) error {
	if err := consumer.Require(action, principal.Consumer); err != nil {
		return err
	}
	if !o.consumerID.IsEqual(consumer.ID()) {
		return errs.NewUnauthorizedErrorWithCause(action, errors.New("caller is not the order's consumer"))
	}
	return nil
}

func (o *Order) authorizeDelivery(actor principal.Principal, policy DeliveryPolicy, handoffCode string) error {
	const action = "mark delivered"
	switch {
	case actor.IsPrivileged():
		return nil
	case actor.Is(principal.Consumer) && policy.AllowsConsumer():
		return o.requireConsumer(action, actor)
	case actor.Is(principal.Carrier) && policy.AllowsCarrier():
		if err := o.requireBoundCarrier(action, actor); err != nil {
			return err
		}
		if subtle.ConstantTimeCompare([]byte(handoffCode), []byte(o.handoffCode)) != 1 {
			return errs.NewUnauthorizedErrorWithCause(action, ErrHandoffCodeMismatch)
		}
		return nil
	}
	return errs.NewUnauthorizedErrorWithCause(action, fmt.Errorf("delivery policy %s does not allow %s", policy, actor.Role()))
}

// validateState checks the status/carrier/timestamp consistency of restored records.
func (o *Order) validateState() error {
	invalid := func(reason string) error {
		return errs.NewValueIsInvalidErrorWithCause("order state", fmt.Errorf("%s: %s", o.status, reason))
	}

	switch o.status {
	case Created:
		if o.carrierID != nil || o.claimedAt != nil || o.retrievedAt != nil || o.resolvedAt != nil {
			return invalid("created orders carry no carrier or lifecycle timestamps")
		}
	case Claimed:
		if o.carrierID == nil || o.claimedAt == nil || o.retrievedAt != nil {
			return invalid("claimed orders need a carrier and claimedAt only")
		}
	case Retrieved:
		if o.carrierID == nil || o.claimedAt == nil || o.retrievedAt == nil || o.resolvedAt != nil {
			return invalid("retrieved orders need a carrier, claimedAt and retrievedAt")
		}
	case Delivered, ReportedMissing:
		if o.carrierID == nil || o.resolvedAt == nil {
			return invalid("resolved deliveries keep their carrier and resolvedAt")
		}
	case Cancelled:
		if o.resolvedAt == nil {
			return invalid("cancelled orders need resolvedAt")
		}
	}
	return nil
}

func (o *Order) setIdentity(id, schoolID, consumerID kernel.UUID) error {
	if err := errors.Join(id.Validate(), schoolID.Validate(), consumerID.Validate()); err != nil {
		return err
	}
	o.id = id
	o.schoolID = schoolID
	o.consumerID = consumerID
	return nil
}

func (o *Order) setSnapshot(snapshot MenuSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	o.snapshot = snapshot
	return nil
}

func (o *Order) setHandoffCode(code string) error {
	if err := ValidateHandoffCode(code); err != nil {
		return err
	}
	o.handoffCode = code
	return nil
}

func requireTime(name string, t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func setOnce(field **time.Time, name string, now time.Time) error {
	if *field != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, errors.New("already set for this attempt"))
	}
	t := now.UTC()
	*field = &t
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func utcTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := t.UTC()
	return &c
}

func cloneUUID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
