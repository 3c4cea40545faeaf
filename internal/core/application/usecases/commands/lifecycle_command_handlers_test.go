package commands_test

import (
	"context"
	"testing"
	"time"

	"dormeal/internal/adapters/out/orderevents"
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

const staleAfter = 15 * time.Minute

type lifecycle struct {
	claim         commands.ClaimOrderCommandHandler
	confirm       commands.ConfirmRetrievalCommandHandler
	markDelivered commands.MarkDeliveredCommandHandler
	reportMissing commands.ReportMissingCommandHandler
	reopen        commands.ReopenOrderCommandHandler
	cancel        commands.CancelOrderCommandHandler
}

func newLifecycle(factory ports.UnitOfWorkFactory, policy order.DeliveryPolicy, now func() time.Time) lifecycle {
	opts := []commands.Option{commands.WithClock(now)}
	return lifecycle{
		claim:         commands.NewClaimOrderCommandHandler(factory, opts...),
		confirm:       commands.NewConfirmRetrievalCommandHandler(factory, opts...),
		markDelivered: commands.NewMarkDeliveredCommandHandler(factory, policy, opts...),
		reportMissing: commands.NewReportMissingCommandHandler(factory, opts...),
		reopen:        commands.NewReopenOrderCommandHandler(factory, staleAfter, opts...),
		cancel:        commands.NewCancelOrderCommandHandler(factory, opts...),
	}
}

func (l lifecycle) doClaim(t *testing.T, id kernel.UUID, p principal.Principal) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewClaimOrderCommand(id, p)
	require.NoError(t, err)
	return l.claim.Handle(t.Context(), cmd)
}

func (l lifecycle) doConfirm(t *testing.T, id kernel.UUID, p principal.Principal) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewConfirmRetrievalCommand(id, p)
	require.NoError(t, err)
	return l.confirm.Handle(t.Context(), cmd)
}

func (l lifecycle) doDeliver(t *testing.T, id kernel.UUID, p principal.Principal, code string) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewMarkDeliveredCommand(id, p, code)
	require.NoError(t, err)
	return l.markDelivered.Handle(t.Context(), cmd)
}

func (l lifecycle) doReportMissing(t *testing.T, id kernel.UUID, p principal.Principal) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewReportMissingCommand(id, p)
	require.NoError(t, err)
	return l.reportMissing.Handle(t.Context(), cmd)
}

func (l lifecycle) doReopen(t *testing.T, id kernel.UUID, p principal.Principal) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewReopenOrderCommand(id, p)
	require.NoError(t, err)
	return l.reopen.Handle(t.Context(), cmd)
}

func (l lifecycle) doCancel(t *testing.T, id kernel.UUID, p principal.Principal) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewCancelOrderCommand(id, p)
	require.NoError(t, err)
	return l.cancel.Handle(t.Context(), cmd)
}

// racingFactory runs beforeCAS once, right before the first compare-and-update,
// to let a competing writer slip in between the read and the write.
type racingFactory struct {
	ports.UnitOfWorkFactory
	beforeCAS func()
}

func (f *racingFactory) Create() ports.UnitOfWork {
	return racingUoW{UnitOfWork: f.UnitOfWorkFactory.Create(), factory: f}
}

type racingUoW struct {
	ports.UnitOfWork
	factory *racingFactory
}

func (u racingUoW) OrderRepository() ports.OrderRepository {
	return racingRepo{OrderRepository: u.UnitOfWork.OrderRepository(), factory: u.factory}
}

type racingRepo struct {
	ports.OrderRepository
	factory *racingFactory
}

func (r racingRepo) CompareAndUpdate(
	ctx context.Context,
	id kernel.UUID,
	expectedVersion int64,
	mutate order.Mutator,
) (*order.Order, error) {
	if hook := r.factory.beforeCAS; hook != nil {
		r.factory.beforeCAS = nil
		hook()
	}
	return r.OrderRepository.CompareAndUpdate(ctx, id, expectedVersion, mutate)
}

func TestScenario_TwoCarriersThenReportMissingAndReopen(t *testing.T) {
	store := newMemoryStore()
	consumer := mustPrincipal(t, principal.Consumer)
	carrierA := mustPrincipal(t, principal.Carrier)
	carrierB := mustPrincipal(t, principal.Carrier)
	admin := mustPrincipal(t, principal.Admin)
	schoolID := kernel.NewUUID()
	o := store.addOrder(t, schoolID, consumer)
	assert.EqualValues(t, 1, o.Version())

	l := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0))

	// B reads version 1, then A claims before B writes.
	racing := &racingFactory{UnitOfWorkFactory: store.factory}
	racing.beforeCAS = func() {
		result, err := l.doClaim(t, o.ID(), carrierA)
		require.NoError(t, err)
		assert.Equal(t, commands.TransitionResult{OrderID: o.ID(), Status: order.Claimed, Version: 2}, result)
	}
	bCmd, _ := commands.NewClaimOrderCommand(o.ID(), carrierB)
	_, err := commands.NewClaimOrderCommandHandler(racing).Handle(t.Context(), bCmd)
	require.ErrorIs(t, err, commands.ErrClaimLost)

	stored := store.get(t, o.ID())
	assert.True(t, stored.ActiveCarrier().IsEqual(carrierA.ID()))

	result, err := l.doConfirm(t, o.ID(), carrierA)
	require.NoError(t, err)
	assert.Equal(t, order.Retrieved, result.Status)
	assert.EqualValues(t, 3, result.Version)
	assert.NotNil(t, store.get(t, o.ID()).ClaimedAt())

	result, err = l.doReportMissing(t, o.ID(), consumer)
	require.NoError(t, err)
	assert.Equal(t, order.ReportedMissing, result.Status)
	assert.EqualValues(t, 4, result.Version)
	stored = store.get(t, o.ID())
	require.NotNil(t, stored.CarrierID())
	assert.True(t, stored.CarrierID().IsEqual(carrierA.ID()))
	assert.Nil(t, stored.ActiveCarrier())

	result, err = l.doReopen(t, o.ID(), admin)
	require.NoError(t, err)
	assert.Equal(t, order.Created, result.Status)
	assert.EqualValues(t, 5, result.Version)
	stored = store.get(t, o.ID())
	assert.Nil(t, stored.CarrierID())
	assert.Equal(t, 2, stored.Attempt())

	var available []kernel.UUID
	for o, err := range store.repo().ListAvailable(t.Context(), schoolID) {
		require.NoError(t, err)
		available = append(available, o.ID())
	}
	assert.Equal(t, []kernel.UUID{o.ID()}, available)

	pending, err := store.outbox.Pending(t.Context(), 10)
	require.NoError(t, err)
	var events []string
	for _, m := range pending {
		msg, err := orderevents.Decode(m.Payload)
		require.NoError(t, err)
		events = append(events, msg.Event)
	}
	assert.Equal(t, []string{"claim", "confirm_retrieval", "report_missing", "reopen"}, events)
}

func TestMarkDelivered_Policies(t *testing.T) {
	tests := []struct {
		name    string
		policy  order.DeliveryPolicy
		actor   func(consumer, carrier principal.Principal) principal.Principal
		code    string
		wantErr error
	}{
		{"consumer confirms", order.ConsumerConfirms, func(c, _ principal.Principal) principal.Principal { return c }, "", nil},
		{"carrier under consumer policy", order.ConsumerConfirms, func(_, k principal.Principal) principal.Principal { return k }, "1234", errs.ErrUnauthorized},
		{"carrier with code", order.CarrierReports, func(_, k principal.Principal) principal.Principal { return k }, "1234", nil},
		{"carrier wrong code", order.CarrierReports, func(_, k principal.Principal) principal.Principal { return k }, "0000", order.ErrHandoffCodeMismatch},
		{"consumer under carrier policy", order.CarrierReports, func(c, _ principal.Principal) principal.Principal { return c }, "", errs.ErrUnauthorized},
		{"either party consumer", order.EitherParty, func(c, _ principal.Principal) principal.Principal { return c }, "", nil},
		{"either party carrier", order.EitherParty, func(_, k principal.Principal) principal.Principal { return k }, "1234", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			consumer := mustPrincipal(t, principal.Consumer)
			carrier := mustPrincipal(t, principal.Carrier)
			o := store.addOrder(t, kernel.NewUUID(), consumer)
			l := newLifecycle(store.factory, tt.policy, fixedClock(t0))
			_, err := l.doClaim(t, o.ID(), carrier)
			require.NoError(t, err)
			_, err = l.doConfirm(t, o.ID(), carrier)
			require.NoError(t, err)

			result, err := l.doDeliver(t, o.ID(), tt.actor(consumer, carrier), tt.code)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, order.Retrieved, store.get(t, o.ID()).Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.Delivered, result.Status)
			assert.EqualValues(t, 4, result.Version)
		})
	}
}

func TestConfirmRetrieval_OnlyBoundCarrier(t *testing.T) {
	store := newMemoryStore()
	carrier := mustPrincipal(t, principal.Carrier)
	o := store.addOrder(t, kernel.NewUUID(), mustPrincipal(t, principal.Consumer))
	l := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0))
	_, err := l.doClaim(t, o.ID(), carrier)
	require.NoError(t, err)

	_, err = l.doConfirm(t, o.ID(), mustPrincipal(t, principal.Carrier))

	require.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.EqualValues(t, 2, store.get(t, o.ID()).Version())
}

func TestInvalidTransition_LeavesOrderUntouched(t *testing.T) {
	store := newMemoryStore()
	consumer := mustPrincipal(t, principal.Consumer)
	o := store.addOrder(t, kernel.NewUUID(), consumer)
	l := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0))

	_, err := l.doReportMissing(t, o.ID(), consumer)

	var transitionErr *order.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, order.Created, transitionErr.From)
	assert.Equal(t, order.ReportMissing, transitionErr.Event)
	assert.Equal(t, o.Record(), store.get(t, o.ID()).Record())
}

func TestReopen_StaleClaim(t *testing.T) {
	store := newMemoryStore()
	carrier := mustPrincipal(t, principal.Carrier)
	admin := mustPrincipal(t, principal.Admin)
	o := store.addOrder(t, kernel.NewUUID(), mustPrincipal(t, principal.Consumer))

	claimAt := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0))
	_, err := claimAt.doClaim(t, o.ID(), carrier)
	require.NoError(t, err)

	early := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0.Add(staleAfter-time.Second)))
	_, err = early.doReopen(t, o.ID(), admin)
	require.ErrorIs(t, err, order.ErrClaimNotStale)

	late := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0.Add(staleAfter)))
	_, err = late.doReopen(t, o.ID(), carrier)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	result, err := late.doReopen(t, o.ID(), admin)
	require.NoError(t, err)
	assert.Equal(t, order.Created, result.Status)
	assert.EqualValues(t, 3, result.Version)
}

func TestCancel(t *testing.T) {
	store := newMemoryStore()
	consumer := mustPrincipal(t, principal.Consumer)
	o := store.addOrder(t, kernel.NewUUID(), consumer)
	l := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0))

	_, err := l.doCancel(t, o.ID(), mustPrincipal(t, principal.Consumer))
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	result, err := l.doCancel(t, o.ID(), consumer)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, result.Status)

	_, err = l.doClaim(t, o.ID(), mustPrincipal(t, principal.Carrier))
	assert.ErrorIs(t, err, order.ErrOrderNotAvailable)
}

func TestLifecycle_ConflictExhaustedSurfacesVersionConflict(t *testing.T) {
	store := newMemoryStore()
	consumer := mustPrincipal(t, principal.Consumer)
	o := store.addOrder(t, kernel.NewUUID(), consumer)
	conflict := errs.NewVersionConflictError(o.ID().String(), 1, 2)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Twice()
	repo.On("CompareAndUpdate", mock.Anything, o.ID(), int64(1), mock.Anything).Return(nil, conflict).Twice()
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", mock.Anything).Return(nil)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	handler := commands.NewCancelOrderCommandHandler(factory, commands.WithMaxAttempts(2))
	cmd, _ := commands.NewCancelOrderCommand(o.ID(), consumer)
	_, err := handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrVersionConflict)
	repo.AssertExpectations(t)
}

func TestVersionMonotonicity(t *testing.T) {
	store := newMemoryStore()
	consumer := mustPrincipal(t, principal.Consumer)
	carrier := mustPrincipal(t, principal.Carrier)
	admin := mustPrincipal(t, principal.Admin)
	o := store.addOrder(t, kernel.NewUUID(), consumer)
	l := newLifecycle(store.factory, order.ConsumerConfirms, fixedClock(t0))

	steps := []func() (commands.TransitionResult, error){
		func() (commands.TransitionResult, error) { return l.doClaim(t, o.ID(), carrier) },
		func() (commands.TransitionResult, error) { return l.doConfirm(t, o.ID(), carrier) },
		func() (commands.TransitionResult, error) { return l.doReportMissing(t, o.ID(), consumer) },
		func() (commands.TransitionResult, error) { return l.doReopen(t, o.ID(), admin) },
		func() (commands.TransitionResult, error) { return l.doClaim(t, o.ID(), carrier) },
		func() (commands.TransitionResult, error) { return l.doConfirm(t, o.ID(), carrier) },
		func() (commands.TransitionResult, error) { return l.doDeliver(t, o.ID(), consumer, "") },
	}
	version := o.Version()
	for i, step := range steps {
		result, err := step()
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, version+1, result.Version, "step %d", i)
		version = result.Version
	}
	assert.Equal(t, order.Delivered, store.get(t, o.ID()).Status())
}
