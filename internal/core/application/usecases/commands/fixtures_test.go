package commands_test

import (
	"testing"
	"time"

	"dormeal/internal/adapters/out/memory"
	"dormeal/internal/adapters/out/storetest"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func mustPrincipal(t *testing.T, role principal.Role) principal.Principal {
	t.Helper()
	p, err := principal.New(kernel.NewUUID(), role)
	require.NoError(t, err)
	return p
}

type memoryStore struct {
	factory *memory.UnitOfWorkFactory
	outbox  *memory.Outbox
}

func newMemoryStore() memoryStore {
	outbox := memory.NewOutbox()
	return memoryStore{factory: memory.NewUnitOfWorkFactory(memory.NewOrderStore(outbox), outbox), outbox: outbox}
}

func (s memoryStore) repo() ports.OrderRepository {
	return s.factory.Create().OrderRepository()
}

// addOrder stores a Created order for consumer and returns it.
func (s memoryStore) addOrder(t *testing.T, schoolID kernel.UUID, consumer principal.Principal) *order.Order {
	t.Helper()
	o, err := storetest.NewTestOrder(schoolID, consumer.ID(), t0)
	require.NoError(t, err)
	require.NoError(t, s.repo().Add(t.Context(), o))
	return o
}

func (s memoryStore) get(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := s.repo().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}
