package memory

import (
	"context"

	"dormeal/internal/core/ports"
)

// UnitOfWorkFactory hands out units of work over one shared store. Every
// store operation is atomic on its own, so Begin/Commit/Rollback only
// delimit the call sequence.
type UnitOfWorkFactory struct {
	orders *OrderStore
	outbox *Outbox
}

func NewUnitOfWorkFactory(orders *OrderStore, outbox *Outbox) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{orders: orders, outbox: outbox}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &unitOfWork{orders: f.orders, outbox: f.outbox}
}

type unitOfWork struct {
	orders *OrderStore
	outbox *Outbox
}

func (u *unitOfWork) Begin(context.Context) error    { return nil }
func (u *unitOfWork) Commit(context.Context) error   { return nil }
func (u *unitOfWork) Rollback(context.Context) error { return nil }

func (u *unitOfWork) OrderRepository() ports.OrderRepository {
	return u.orders
}

func (u *unitOfWork) OutboxRepository() ports.OutboxRepository {
	return u.outbox
}
