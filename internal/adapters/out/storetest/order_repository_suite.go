// Package storetest holds the behavioral suite every ports.OrderRepository
// implementation must pass. Adapter packages run it from their own tests.
package storetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

var T0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// OrderRepositorySuite exercises a store through its unit of work.
// NewFactory must return a factory over an empty store.
type OrderRepositorySuite struct {
	suite.Suite
	NewFactory func() ports.UnitOfWorkFactory

	factory ports.UnitOfWorkFactory
	ctx     context.Context
}

func (s *OrderRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.factory = s.NewFactory()
}

// NewTestOrder builds a Created order for school at createdAt.
func NewTestOrder(schoolID kernel.UUID, consumerID kernel.UUID, createdAt time.Time) (*order.Order, error) {
	item, err := kernel.NewMoney(899)
	if err != nil {
		return nil, err
	}
	snapshot, err := order.NewMenuSnapshot(kernel.NewUUID(), "Burger Haven", []order.SnapshotLine{
		{ItemID: "classic-burger", Name: "Classic Burger", UnitPrice: item, Quantity: 1,
			Options: []order.SnapshotOption{{ID: "cheese", Name: "Cheese", Price: item}}},
	})
	if err != nil {
		return nil, err
	}
	return order.NewOrder(order.NewOrderParams{
		ID:          kernel.NewUUID(),
		SchoolID:    schoolID,
		ConsumerID:  consumerID,
		Snapshot:    snapshot,
		HandoffCode: "1234",
		CreatedAt:   createdAt,
	})
}

func (s *OrderRepositorySuite) principal(role principal.Role) principal.Principal {
	p, err := principal.New(kernel.NewUUID(), role)
	s.Require().NoError(err)
	return p
}

func (s *OrderRepositorySuite) add(schoolID, consumerID kernel.UUID, createdAt time.Time) *order.Order {
	o, err := NewTestOrder(schoolID, consumerID, createdAt)
	s.Require().NoError(err)

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(s.ctx))
	s.Require().NoError(uow.OrderRepository().Add(s.ctx, o))
	s.Require().NoError(uow.Commit(s.ctx))
	return o
}

func (s *OrderRepositorySuite) repo() ports.OrderRepository {
	return s.factory.Create().OrderRepository()
}

func (s *OrderRepositorySuite) cas(id kernel.UUID, expected int64, m order.Mutator) (*order.Order, error) {
	uow := s.factory.Create()
	if err := uow.Begin(s.ctx); err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(s.ctx) }()

	updated, err := uow.OrderRepository().CompareAndUpdate(s.ctx, id, expected, m)
	if err != nil {
		return nil, err
	}
	return updated, uow.Commit(s.ctx)
}

func (s *OrderRepositorySuite) pending() []ports.OutboxMessage {
	msgs, err := s.factory.Create().OutboxRepository().Pending(s.ctx, 100)
	s.Require().NoError(err)
	return msgs
}

func (s *OrderRepositorySuite) TestAddAndGet() {
	school, consumer := kernel.NewUUID(), kernel.NewUUID()
	o := s.add(school, consumer, T0)

	got, err := s.repo().Get(s.ctx, o.ID())

	s.Require().NoError(err)
	s.Equal(o.Record(), got.Record())
	s.True(got.Snapshot().Equal(o.Snapshot()))
}

func (s *OrderRepositorySuite) TestAddDuplicateFails() {
	o := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(s.ctx))
	err := uow.OrderRepository().Add(s.ctx, o)
	_ = uow.Rollback(s.ctx)

	s.Require().Error(err)
}

func (s *OrderRepositorySuite) TestGetUnknownIsNotFound() {
	_, err := s.repo().Get(s.ctx, kernel.NewUUID())

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderRepositorySuite) TestCompareAndUpdateIncrementsVersionAndWritesOutbox() {
	o := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	carrier := s.principal(principal.Carrier)

	updated, err := s.cas(o.ID(), 1, order.ClaimBy(carrier, T0.Add(time.Minute)))

	s.Require().NoError(err)
	s.Equal(int64(2), updated.Version())
	s.Equal(order.Claimed, updated.Status())
	s.True(updated.ActiveCarrier().IsEqual(carrier.ID()))

	stored, err := s.repo().Get(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(updated.Record(), stored.Record())

	msgs := s.pending()
	s.Require().Len(msgs, 1)
	s.True(msgs[0].OrderID.IsEqual(o.ID()))
	s.Equal("claim", msgs[0].Event)
	s.Contains(string(msgs[0].Payload), `"to":"Claimed"`)
}

func (s *OrderRepositorySuite) TestCompareAndUpdateStaleVersionConflicts() {
	o := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	_, err := s.cas(o.ID(), 1, order.ClaimBy(s.principal(principal.Carrier), T0))
	s.Require().NoError(err)

	_, err = s.cas(o.ID(), 1, order.ClaimBy(s.principal(principal.Carrier), T0))

	var conflict *errs.VersionConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal(int64(1), conflict.Expected)
	s.Equal(int64(2), conflict.Actual)
	stored, _ := s.repo().Get(s.ctx, o.ID())
	s.Equal(int64(2), stored.Version())
}

func (s *OrderRepositorySuite) TestCompareAndUpdateReturnsMutatorErrorAndWritesNothing() {
	o := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	boom := errors.New("boom")

	_, err := s.cas(o.ID(), 1, func(*order.Order) error { return boom })
	s.Require().ErrorIs(err, boom)

	_, err = s.cas(o.ID(), 1, order.ConfirmRetrievalBy(s.principal(principal.Carrier), T0))
	s.Require().ErrorIs(err, order.ErrInvalidTransition)

	stored, err := s.repo().Get(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(o.Record(), stored.Record())
	s.Empty(s.pending())
}

func (s *OrderRepositorySuite) TestCompareAndUpdateUnknownIsNotFound() {
	_, err := s.cas(kernel.NewUUID(), 1, order.ClaimBy(s.principal(principal.Carrier), T0))

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderRepositorySuite) TestVersionGrowsByOnePerMutation() {
	consumer := s.principal(principal.Consumer)
	carrier := s.principal(principal.Carrier)
	admin := s.principal(principal.Admin)
	o := s.add(kernel.NewUUID(), consumer.ID(), T0)

	steps := []order.Mutator{
		order.ClaimBy(carrier, T0),
		order.ConfirmRetrievalBy(carrier, T0),
		order.ReportMissingBy(consumer, T0),
		order.ReopenBy(admin, T0, 0),
		order.ClaimBy(carrier, T0),
	}
	for i, m := range steps {
		updated, err := s.cas(o.ID(), int64(i+1), m)
		s.Require().NoError(err)
		s.Equal(int64(i+2), updated.Version())
	}
	s.Len(s.pending(), len(steps))
}

func (s *OrderRepositorySuite) TestConcurrentClaimsHaveOneWinner() {
	o := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	const carriers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for range carriers {
		carrier := s.principal(principal.Carrier)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.cas(o.ID(), 1, order.ClaimBy(carrier, T0))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, errs.ErrVersionConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, winners)
	s.Equal(carriers-1, conflicts)
	stored, err := s.repo().Get(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(int64(2), stored.Version())
	s.Len(s.pending(), 1)
}

func (s *OrderRepositorySuite) TestListAvailableOrdersOldestFirst() {
	school, other := kernel.NewUUID(), kernel.NewUUID()
	consumer := kernel.NewUUID()
	third := s.add(school, consumer, T0.Add(3*time.Minute))
	first := s.add(school, consumer, T0.Add(1*time.Minute))
	second := s.add(school, consumer, T0.Add(2*time.Minute))
	claimed := s.add(school, consumer, T0)
	s.add(other, consumer, T0)
	_, err := s.cas(claimed.ID(), 1, order.ClaimBy(s.principal(principal.Carrier), T0))
	s.Require().NoError(err)

	ids := s.available(school)

	s.Equal([]kernel.UUID{first.ID(), second.ID(), third.ID()}, ids)
	s.Equal(ids, s.available(school), "a second range reads again")
}

func (s *OrderRepositorySuite) TestListAvailableStopsEarly() {
	school := kernel.NewUUID()
	for i := range 5 {
		s.add(school, kernel.NewUUID(), T0.Add(time.Duration(i)*time.Second))
	}

	n := 0
	for _, err := range s.repo().ListAvailable(s.ctx, school) {
		s.Require().NoError(err)
		n++
		if n == 2 {
			break
		}
	}
	s.Equal(2, n)
}

func (s *OrderRepositorySuite) TestReopenedOrderIsAvailableAgain() {
	school := kernel.NewUUID()
	consumer := s.principal(principal.Consumer)
	carrier := s.principal(principal.Carrier)
	o := s.add(school, consumer.ID(), T0)

	for i, m := range []order.Mutator{
		order.ClaimBy(carrier, T0),
		order.ConfirmRetrievalBy(carrier, T0),
		order.ReportMissingBy(consumer, T0),
	} {
		_, err := s.cas(o.ID(), int64(i+1), m)
		s.Require().NoError(err)
	}
	s.Empty(s.available(school))

	_, err := s.cas(o.ID(), 4, order.ReopenBy(s.principal(principal.Admin), T0, 0))
	s.Require().NoError(err)

	s.Equal([]kernel.UUID{o.ID()}, s.available(school))
}

func (s *OrderRepositorySuite) TestListByStatusBefore() {
	carrier := s.principal(principal.Carrier)
	stale := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	fresh := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	_, err := s.cas(stale.ID(), 1, order.ClaimBy(carrier, T0))
	s.Require().NoError(err)
	_, err = s.cas(fresh.ID(), 1, order.ClaimBy(carrier, T0.Add(time.Hour)))
	s.Require().NoError(err)

	got, err := s.repo().ListByStatusBefore(s.ctx, order.Claimed, T0.Add(30*time.Minute))

	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.True(got[0].ID().IsEqual(stale.ID()))
}

func (s *OrderRepositorySuite) TestDashboardProjections() {
	consumer := s.principal(principal.Consumer)
	carrier := s.principal(principal.Carrier)
	older := s.add(kernel.NewUUID(), consumer.ID(), T0)
	newer := s.add(kernel.NewUUID(), consumer.ID(), T0.Add(time.Minute))
	s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	_, err := s.cas(older.ID(), 1, order.ClaimBy(carrier, T0))
	s.Require().NoError(err)

	mine, err := s.repo().ListByConsumer(s.ctx, consumer.ID())
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.True(mine[0].ID().IsEqual(newer.ID()))

	held, err := s.repo().ListByCarrier(s.ctx, carrier.ID())
	s.Require().NoError(err)
	s.Require().Len(held, 1)
	s.True(held[0].ID().IsEqual(older.ID()))

	counts, err := s.repo().CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, counts[order.Created])
	s.Equal(1, counts[order.Claimed])
	s.Zero(counts[order.Delivered])
}

func (s *OrderRepositorySuite) TestMarkPublishedHidesMessages() {
	o := s.add(kernel.NewUUID(), kernel.NewUUID(), T0)
	_, err := s.cas(o.ID(), 1, order.ClaimBy(s.principal(principal.Carrier), T0))
	s.Require().NoError(err)
	msgs := s.pending()
	s.Require().Len(msgs, 1)

	outbox := s.factory.Create().OutboxRepository()
	s.Require().NoError(outbox.MarkPublished(s.ctx, []int64{msgs[0].ID}, T0))

	s.Empty(s.pending())
}

func (s *OrderRepositorySuite) available(school kernel.UUID) []kernel.UUID {
	var ids []kernel.UUID
	for o, err := range s.repo().ListAvailable(s.ctx, school) {
		s.Require().NoError(err)
		ids = append(ids, o.ID())
	}
	return ids
}
