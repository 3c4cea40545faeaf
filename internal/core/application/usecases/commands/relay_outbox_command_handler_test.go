package commands_test

import (
	"errors"
	"testing"

	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRelayOutboxCommand(t *testing.T) {
	_, err := commands.NewRelayOutboxCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	cmd, err := commands.NewRelayOutboxCommand(50)
	require.NoError(t, err)
	assert.Equal(t, 50, cmd.BatchSize())
}

func TestRelayOutbox_PublishesInOrderAndMarks(t *testing.T) {
	store := newMemoryStore()
	consumer := mustPrincipal(t, principal.Consumer)
	l := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0))

	first := store.addOrder(t, kernel.NewUUID(), consumer)
	second := store.addOrder(t, kernel.NewUUID(), consumer)
	_, err := l.doCancel(t, first.ID(), consumer)
	require.NoError(t, err)
	_, err = l.doClaim(t, second.ID(), mustPrincipal(t, principal.Carrier))
	require.NoError(t, err)

	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(msgs []ports.OutboxMessage) bool {
		return len(msgs) == 1 && msgs[0].OrderID.IsEqual(first.ID())
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(msgs []ports.OutboxMessage) bool {
		return len(msgs) == 1 && msgs[0].OrderID.IsEqual(second.ID())
	})).Return(nil).Once()

	handler := commands.NewRelayOutboxCommandHandler(store.factory, publisher, commands.WithClock(fixedClock(t0)))
	cmd, err := commands.NewRelayOutboxCommand(1)
	require.NoError(t, err)

	for range 2 {
		n, err := handler.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	n, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Zero(t, n)

	publisher.AssertExpectations(t)
}

func TestRelayOutbox_PublishFailureKeepsMessagesPending(t *testing.T) {
	pending := []ports.OutboxMessage{{ID: 7, OrderID: kernel.NewUUID(), Event: "claim"}}
	boom := errors.New("broker down")

	outbox := new(MockOutboxRepository)
	outbox.On("Pending", mock.Anything, 10).Return(pending, nil)
	uow := new(MockUoW)
	uow.On("OutboxRepository").Return(outbox)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, pending).Return(boom)

	handler := commands.NewRelayOutboxCommandHandler(factory, publisher)
	cmd, _ := commands.NewRelayOutboxCommand(10)
	n, err := handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, boom)
	assert.Zero(t, n)
	outbox.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything)
}

func TestRelayOutbox_MarksPublishedIDs(t *testing.T) {
	pending := []ports.OutboxMessage{{ID: 3}, {ID: 4}}

	outbox := new(MockOutboxRepository)
	outbox.On("Pending", mock.Anything, 10).Return(pending, nil)
	outbox.On("MarkPublished", mock.Anything, []int64{3, 4}, t0).Return(nil)
	uow := new(MockUoW)
	uow.On("OutboxRepository").Return(outbox)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, pending).Return(nil)

	handler := commands.NewRelayOutboxCommandHandler(factory, publisher, commands.WithClock(fixedClock(t0)))
	cmd, _ := commands.NewRelayOutboxCommand(10)
	n, err := handler.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	outbox.AssertExpectations(t)
}
