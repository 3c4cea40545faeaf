package order_test

import (
	"fmt"
	"testing"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	consumer := mustPrincipal(t, principal.Consumer)
	snapshot := burgerSnapshot(t)
	valid := order.NewOrderParams{
		ID:          kernel.NewUUID(),
		SchoolID:    kernel.NewUUID(),
		ConsumerID:  consumer.ID(),
		Snapshot:    snapshot,
		HandoffCode: "0042",
		CreatedAt:   t0,
	}

	t.Run("should create a Created order at version 1", func(t *testing.T) {
		o, err := order.NewOrder(valid)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(valid.ID))
		assert.True(t, o.RestaurantID().IsEqual(snapshot.RestaurantID()))
		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, int64(1), o.Version())
		assert.Equal(t, 1, o.Attempt())
		assert.Nil(t, o.CarrierID())
		assert.Nil(t, o.ActiveCarrier())
		assert.Nil(t, o.ClaimedAt())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		o, err := order.NewOrder(order.NewOrderParams{HandoffCode: "12a4"})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "MenuSnapshot must be created")
		assert.Contains(t, err.Error(), "handoffCode")
		assert.Contains(t, err.Error(), "createdAt")
	})
}

func TestOrder_Validate(t *testing.T) {
	var o *order.Order
	assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	assert.Equal(t, order.ErrOrderIsNotConstructed, (&order.Order{}).Validate())
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should round trip a record", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Retrieved)

		restored, err := order.RestoreOrder(o.Record())

		require.NoError(t, err)
		assert.Equal(t, o.Record(), restored.Record())
		assert.Empty(t, restored.DomainEvents())
	})

	t.Run("should reject inconsistent carrier binding", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Created)
		r := o.Record()
		carrier := kernel.NewUUID()
		r.CarrierID = &carrier

		_, err := order.RestoreOrder(r)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a claimed record without carrier", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Claimed)
		r := o.Record()
		r.CarrierID = nil

		_, err := order.RestoreOrder(r)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject version 0", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Created)
		r := o.Record()
		r.Version = 0

		_, err := order.RestoreOrder(r)

		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("should reject a restaurant that differs from the snapshot", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Created)
		r := o.Record()
		r.RestaurantID = kernel.NewUUID()

		_, err := order.RestoreOrder(r)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Claim(t *testing.T) {
	t.Run("should bind the carrier and stamp claimedAt", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Created)
		carrier := mustPrincipal(t, principal.Carrier)

		err := order.ClaimBy(carrier, t0.Add(time.Minute))(o)

		require.NoError(t, err)
		assert.Equal(t, order.Claimed, o.Status())
		require.NotNil(t, o.ActiveCarrier())
		assert.True(t, o.ActiveCarrier().IsEqual(carrier.ID()))
		assert.Equal(t, t0.Add(time.Minute), *o.ClaimedAt())
	})

	t.Run("should reject non-carriers", func(t *testing.T) {
		for _, role := range []principal.Role{principal.Consumer, principal.Admin} {
			o, _, _ := orderIn(t, order.Created)

			err := o.Claim(mustPrincipal(t, role), t0)

			assert.ErrorIs(t, err, errs.ErrUnauthorized)
			assert.Equal(t, order.Created, o.Status())
		}
		o, _, _ := orderIn(t, order.Created)
		assert.ErrorIs(t, o.Claim(principal.NewAnonymous(), t0), errs.ErrUnauthorized)
	})

	t.Run("should report the current state before authorization", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Claimed)

		err := o.Claim(principal.NewAnonymous(), t0)

		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_ConfirmRetrieval(t *testing.T) {
	t.Run("should accept the bound carrier", func(t *testing.T) {
		o, _, carrier := orderIn(t, order.Claimed)

		require.NoError(t, o.ConfirmRetrieval(carrier, t0.Add(time.Minute)))
		assert.Equal(t, order.Retrieved, o.Status())
		assert.Equal(t, t0.Add(time.Minute), *o.RetrievedAt())
	})

	t.Run("should reject another carrier", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Claimed)

		err := o.ConfirmRetrieval(mustPrincipal(t, principal.Carrier), t0)

		assert.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.Equal(t, order.Claimed, o.Status())
	})
}

func TestOrder_MarkDelivered(t *testing.T) {
	t.Run("consumer policy accepts only the order's consumer", func(t *testing.T) {
		o, consumer, carrier := orderIn(t, order.Retrieved)

		assert.ErrorIs(t, o.MarkDelivered(carrier, t0, order.ConsumerConfirms, "4821"), errs.ErrUnauthorized)
		assert.ErrorIs(t, o.MarkDelivered(mustPrincipal(t, principal.Consumer), t0, order.ConsumerConfirms, ""), errs.ErrUnauthorized)
		require.NoError(t, o.MarkDelivered(consumer, t0, order.ConsumerConfirms, ""))
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("carrier policy requires the handoff code", func(t *testing.T) {
		o, consumer, carrier := orderIn(t, order.Retrieved)

		assert.ErrorIs(t, o.MarkDelivered(consumer, t0, order.CarrierReports, ""), errs.ErrUnauthorized)
		err := o.MarkDelivered(carrier, t0, order.CarrierReports, "0000")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.ErrorIs(t, err, order.ErrHandoffCodeMismatch)
		require.NoError(t, o.MarkDelivered(carrier, t0, order.CarrierReports, "4821"))
	})

	t.Run("handoff code must match exactly", func(t *testing.T) {
		for _, code := range []string{"4822", "482", "48210", "4821 ", " 4821", "\x004821"} {
			o, _, carrier := orderIn(t, order.Retrieved)

			err := o.MarkDelivered(carrier, t0, order.CarrierReports, code)
			assert.ErrorIs(t, err, order.ErrHandoffCodeMismatch, "code %q", code)
			assert.Equal(t, order.Retrieved, o.Status(), "code %q", code)
		}
	})

	t.Run("admin and system always may", func(t *testing.T) {
		for _, actor := range []principal.Principal{mustPrincipal(t, principal.Admin), principal.NewSystem()} {
			o, _, carrier := orderIn(t, order.Retrieved)

			require.NoError(t, o.MarkDelivered(actor, t0, order.ConsumerConfirms, ""))
			assert.Nil(t, o.ActiveCarrier())
			assert.True(t, o.CarrierID().IsEqual(carrier.ID()), "carrier is kept for audit")
		}
	})
}

func TestOrder_ReportMissing(t *testing.T) {
	o, consumer, carrier := orderIn(t, order.Retrieved)

	assert.ErrorIs(t, o.ReportMissing(mustPrincipal(t, principal.Consumer), t0), errs.ErrUnauthorized)
	require.NoError(t, o.ReportMissing(consumer, t0))

	assert.Equal(t, order.ReportedMissing, o.Status())
	assert.Nil(t, o.ActiveCarrier())
	assert.True(t, o.CarrierID().IsEqual(carrier.ID()))
	assert.NotNil(t, o.ResolvedAt())
}

func TestOrder_Reopen(t *testing.T) {
	admin := mustPrincipal(t, principal.Admin)

	t.Run("should clear the attempt after a missing report", func(t *testing.T) {
		o, _, _ := orderIn(t, order.ReportedMissing)

		require.NoError(t, o.Reopen(admin, t0.Add(time.Hour), time.Hour))

		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, 2, o.Attempt())
		assert.Nil(t, o.CarrierID())
		assert.Nil(t, o.ClaimedAt())
		assert.Nil(t, o.RetrievedAt())
		assert.Nil(t, o.ResolvedAt())
	})

	t.Run("should only reopen stale claims", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Claimed)

		err := o.Reopen(principal.NewSystem(), t0.Add(5*time.Minute), 10*time.Minute)
		assert.ErrorIs(t, err, order.ErrClaimNotStale)
		assert.Equal(t, order.Claimed, o.Status())

		require.NoError(t, o.Reopen(principal.NewSystem(), t0.Add(10*time.Minute), 10*time.Minute))
		assert.Equal(t, order.Created, o.Status())
	})

	t.Run("should reject consumers and carriers", func(t *testing.T) {
		o, consumer, carrier := orderIn(t, order.ReportedMissing)

		assert.ErrorIs(t, o.Reopen(consumer, t0, 0), errs.ErrUnauthorized)
		assert.ErrorIs(t, o.Reopen(carrier, t0, 0), errs.ErrUnauthorized)
	})

	t.Run("should allow a fresh claim afterwards", func(t *testing.T) {
		o, _, _ := orderIn(t, order.ReportedMissing)
		require.NoError(t, o.Reopen(admin, t0, 0))
		next := mustPrincipal(t, principal.Carrier)

		require.NoError(t, o.Claim(next, t0.Add(time.Hour)))
		assert.Equal(t, t0.Add(time.Hour), *o.ClaimedAt())
		assert.True(t, o.ActiveCarrier().IsEqual(next.ID()))
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("consumer cancels own order", func(t *testing.T) {
		o, consumer, _ := orderIn(t, order.Created)

		require.NoError(t, o.Cancel(consumer, t0))
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("another consumer cannot cancel", func(t *testing.T) {
		o, _, _ := orderIn(t, order.Created)

		assert.ErrorIs(t, o.Cancel(mustPrincipal(t, principal.Consumer), t0), errs.ErrUnauthorized)
	})

	t.Run("carrier cannot cancel", func(t *testing.T) {
		o, _, carrier := orderIn(t, order.Claimed)

		assert.ErrorIs(t, o.Cancel(carrier, t0), errs.ErrUnauthorized)
	})

	t.Run("cancel from Claimed keeps the carrier for audit", func(t *testing.T) {
		o, consumer, carrier := orderIn(t, order.Claimed)

		require.NoError(t, o.Cancel(consumer, t0))
		assert.Nil(t, o.ActiveCarrier())
		assert.True(t, o.CarrierID().IsEqual(carrier.ID()))
	})
}

// TestOrder_TransitionGrid applies every event to every state with an actor that
// would pass the guard, and checks illegal pairs leave the order untouched.
func TestOrder_TransitionGrid(t *testing.T) {
	admin := mustPrincipal(t, principal.Admin)

	for _, status := range order.AllStatuses() {
		for _, event := range order.AllEvents() {
			t.Run(fmt.Sprintf("%s on %s", event, status), func(t *testing.T) {
				o, consumer, carrier := orderIn(t, status)
				before := o.Record()

				mutators := map[order.Event]order.Mutator{
					order.Claim:            order.ClaimBy(mustPrincipal(t, principal.Carrier), t0),
					order.ConfirmRetrieval: order.ConfirmRetrievalBy(carrier, t0),
					order.MarkDelivered:    order.MarkDeliveredBy(consumer, t0, order.ConsumerConfirms, ""),
					order.ReportMissing:    order.ReportMissingBy(consumer, t0),
					order.Reopen:           order.ReopenBy(admin, t0, 0),
					order.Cancel:           order.CancelBy(consumer, t0),
				}
				err := mutators[event](o)

				if !status.Allows(event) {
					var transitionErr *order.InvalidTransitionError
					require.ErrorAs(t, err, &transitionErr)
					assert.Equal(t, status, transitionErr.From)
					assert.Equal(t, before, o.Record())
					assert.Empty(t, o.DomainEvents())
					return
				}

				require.NoError(t, err)
				want, _ := status.Next(event)
				assert.Equal(t, want, o.Status())
				events := o.DomainEvents()
				require.Len(t, events, 1)
				assert.Equal(t, event, events[0].Event)
				assert.Equal(t, status, events[0].From)
				assert.Equal(t, want, events[0].To)
				assert.Equal(t, want.HoldsCarrierBinding(), o.ActiveCarrier() != nil)
			})
		}
	}
}

func TestOrder_DomainEvents(t *testing.T) {
	o, _, carrier := orderIn(t, order.Created)
	require.NoError(t, o.Claim(carrier, t0))

	events := o.DomainEvents()
	require.Len(t, events, 1)
	assert.True(t, events[0].OrderID.IsEqual(o.ID()))
	assert.True(t, events[0].ActorID.IsEqual(carrier.ID()))
	assert.Equal(t, principal.Carrier, events[0].ActorRole)
	assert.Equal(t, 1, events[0].Attempt)

	o.ClearDomainEvents()
	assert.Empty(t, o.DomainEvents())
}

func TestOrder_StatusSince(t *testing.T) {
	o, _, carrier := orderIn(t, order.Created)
	assert.Equal(t, t0, o.StatusSince())

	require.NoError(t, o.Claim(carrier, t0.Add(time.Minute)))
	assert.Equal(t, t0.Add(time.Minute), o.StatusSince())

	require.NoError(t, o.ConfirmRetrieval(carrier, t0.Add(2*time.Minute)))
	assert.Equal(t, t0.Add(2*time.Minute), o.StatusSince())
}
