package commands_test

import (
	"context"
	"iter"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListAvailable(context.Context, kernel.UUID) iter.Seq2[*order.Order, error] {
	return func(func(*order.Order, error) bool) {}
}

func (m *MockOrderRepository) CompareAndUpdate(
	ctx context.Context,
	id kernel.UUID,
	expectedVersion int64,
	mutate order.Mutator,
) (*order.Order, error) {
	args := m.Called(ctx, id, expectedVersion, mutate)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByStatusBefore(ctx context.Context, status order.Status, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, status, cutoff)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListByConsumer(context.Context, kernel.UUID) ([]*order.Order, error) {
	return nil, nil
}

func (m *MockOrderRepository) ListByCarrier(context.Context, kernel.UUID) ([]*order.Order, error) {
	return nil, nil
}

func (m *MockOrderRepository) CountByStatus(context.Context) (map[order.Status]int, error) {
	return nil, nil
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Pending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	msgs, _ := args.Get(0).([]ports.OutboxMessage)
	return msgs, args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []int64, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, msgs []ports.OutboxMessage) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}
