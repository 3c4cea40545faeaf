package order_test

import (
	"testing"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func mustPrincipal(t *testing.T, role principal.Role) principal.Principal {
	t.Helper()
	p, err := principal.New(kernel.NewUUID(), role)
	require.NoError(t, err)
	return p
}

func cents(t *testing.T, c int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(c)
	require.NoError(t, err)
	return m
}

func burgerSnapshot(t *testing.T) order.MenuSnapshot {
	t.Helper()
	s, err := order.NewMenuSnapshot(kernel.NewUUID(), "Burger Haven", []order.SnapshotLine{
		{
			ItemID:    "classic-burger",
			Name:      "Classic Burger",
			UnitPrice: cents(t, 899),
			Quantity:  2,
			Options:   []order.SnapshotOption{{ID: "cheese", Name: "Cheese", Price: cents(t, 100)}},
		},
		{ItemID: "fries", Name: "Fries", UnitPrice: cents(t, 399), Quantity: 1},
	})
	require.NoError(t, err)
	return s
}

func newOrder(t *testing.T, consumer principal.Principal) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.NewOrderParams{
		ID:          kernel.NewUUID(),
		SchoolID:    kernel.NewUUID(),
		ConsumerID:  consumer.ID(),
		Snapshot:    burgerSnapshot(t),
		HandoffCode: "4821",
		CreatedAt:   t0,
	})
	require.NoError(t, err)
	return o
}

// orderIn drives a fresh order into status through legal transitions.
func orderIn(t *testing.T, status order.Status) (*order.Order, principal.Principal, principal.Principal) {
	t.Helper()
	consumer := mustPrincipal(t, principal.Consumer)
	carrier := mustPrincipal(t, principal.Carrier)
	admin := mustPrincipal(t, principal.Admin)
	o := newOrder(t, consumer)

	steps := map[order.Status][]order.Mutator{
		order.Created:         nil,
		order.Claimed:         {order.ClaimBy(carrier, t0)},
		order.Retrieved:       {order.ClaimBy(carrier, t0), order.ConfirmRetrievalBy(carrier, t0)},
		order.Delivered:       {order.ClaimBy(carrier, t0), order.ConfirmRetrievalBy(carrier, t0), order.MarkDeliveredBy(consumer, t0, order.ConsumerConfirms, "")},
		order.ReportedMissing: {order.ClaimBy(carrier, t0), order.ConfirmRetrievalBy(carrier, t0), order.ReportMissingBy(consumer, t0)},
		order.Cancelled:       {order.CancelBy(admin, t0)},
	}
	for _, m := range steps[status] {
		require.NoError(t, m(o))
	}
	require.Equal(t, status, o.Status())
	o.ClearDomainEvents()
	return o, consumer, carrier
}
