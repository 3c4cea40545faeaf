package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dormeal/internal/adapters/out/memory"
	"dormeal/internal/adapters/out/storetest"
	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const staleAfter = 15 * time.Minute

var t0 = storetest.T0

type fixture struct {
	factory *memory.UnitOfWorkFactory
	logs    *observer.ObservedLogs
	logger  *zap.Logger
	carrier principal.Principal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	outbox := memory.NewOutbox()
	core, logs := observer.New(zapcore.DebugLevel)
	carrier, err := principal.New(kernel.NewUUID(), principal.Carrier)
	require.NoError(t, err)
	return fixture{
		factory: memory.NewUnitOfWorkFactory(memory.NewOrderStore(outbox), outbox),
		logs:    logs,
		logger:  zap.New(core),
		carrier: carrier,
	}
}

func (f fixture) claimed(t *testing.T, at time.Time, mutators ...order.Mutator) kernel.UUID {
	t.Helper()
	o, err := storetest.NewTestOrder(kernel.NewUUID(), kernel.NewUUID(), at)
	require.NoError(t, err)
	repo := f.factory.Create().OrderRepository()
	require.NoError(t, repo.Add(t.Context(), o))
	for _, m := range append([]order.Mutator{order.ClaimBy(f.carrier, at)}, mutators...) {
		o, err = repo.CompareAndUpdate(t.Context(), o.ID(), o.Version(), m)
		require.NoError(t, err)
	}
	return o.ID()
}

func (f fixture) status(t *testing.T, id kernel.UUID) order.Status {
	t.Helper()
	o, err := f.factory.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o.Status()
}

func TestStaleClaimJob_ReopensAndLogs(t *testing.T) {
	f := newFixture(t)
	id := f.claimed(t, t0)

	clock := commands.WithClock(func() time.Time { return t0.Add(time.Hour) })
	reopen := commands.NewReopenOrderCommandHandler(f.factory, staleAfter, clock)
	job := jobs.NewStaleClaimJob(commands.NewReopenStaleClaimsCommandHandler(f.factory, reopen, staleAfter, true, clock), f.logger)

	job.Run(t.Context())

	assert.Equal(t, order.Created, f.status(t, id))
	entries := f.logs.FilterMessage("stale claims found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "stale_claim_job", entries[0].ContextMap()["component"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["reopened"])
}

func TestStaleClaimJob_QuietWhenNothingIsStale(t *testing.T) {
	f := newFixture(t)
	f.claimed(t, t0)

	clock := commands.WithClock(func() time.Time { return t0.Add(time.Minute) })
	reopen := commands.NewReopenOrderCommandHandler(f.factory, staleAfter, clock)
	job := jobs.NewStaleClaimJob(commands.NewReopenStaleClaimsCommandHandler(f.factory, reopen, staleAfter, true, clock), f.logger)

	job.Run(t.Context())

	assert.Zero(t, f.logs.Len())
}

func TestAutoDeliveryJob(t *testing.T) {
	f := newFixture(t)
	id := f.claimed(t, t0, order.ConfirmRetrievalBy(f.carrier, t0))

	clock := commands.WithClock(func() time.Time { return t0.Add(3 * time.Hour) })
	markDelivered := commands.NewMarkDeliveredCommandHandler(f.factory, order.ConsumerConfirms, clock)
	job := jobs.NewAutoDeliveryJob(commands.NewAutoDeliverCommandHandler(f.factory, markDelivered, 2*time.Hour, clock), f.logger)

	job.Run(t.Context())

	assert.Equal(t, order.Delivered, f.status(t, id))
	assert.Equal(t, 1, f.logs.FilterMessage("orders auto-delivered").Len())
}

type countingPublisher struct {
	batches [][]ports.OutboxMessage
	err     error
}

func (p *countingPublisher) Publish(_ context.Context, msgs []ports.OutboxMessage) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, msgs)
	return nil
}

func TestOutboxRelayJob_DrainsInBatches(t *testing.T) {
	f := newFixture(t)
	for range 3 {
		f.claimed(t, t0)
	}

	publisher := &countingPublisher{}
	job, err := jobs.NewOutboxRelayJob(commands.NewRelayOutboxCommandHandler(f.factory, publisher), 2, f.logger)
	require.NoError(t, err)

	job.Run(t.Context())

	require.Len(t, publisher.batches, 2)
	assert.Len(t, publisher.batches[0], 2)
	assert.Len(t, publisher.batches[1], 1)
}

func TestOutboxRelayJob_LogsPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.claimed(t, t0)

	publisher := &countingPublisher{err: errors.New("broker down")}
	job, err := jobs.NewOutboxRelayJob(commands.NewRelayOutboxCommandHandler(f.factory, publisher), 10, f.logger)
	require.NoError(t, err)

	job.Run(t.Context())

	assert.Equal(t, 1, f.logs.FilterMessage("Outbox relay job failed").Len())
	pending, err := f.factory.Create().OutboxRepository().Pending(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestNewOutboxRelayJob_RejectsBadBatchSize(t *testing.T) {
	_, err := jobs.NewOutboxRelayJob(commands.RelayOutboxCommandHandler{}, 0, zap.NewNop())
	require.Error(t, err)
}

type fakeJob struct {
	name     string
	startErr error
	events   *[]string
}

func (j fakeJob) Start() error {
	*j.events = append(*j.events, "start "+j.name)
	return j.startErr
}

func (j fakeJob) Stop() {
	*j.events = append(*j.events, "stop "+j.name)
}

func TestJobManager(t *testing.T) {
	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var events []string
		jm := jobs.NewJobManager(zap.NewNop(), fakeJob{name: "a", events: &events}, fakeJob{name: "b", events: &events})

		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, events)
	})

	t.Run("stops started jobs when one fails", func(t *testing.T) {
		var events []string
		jm := jobs.NewJobManager(zap.NewNop(),
			fakeJob{name: "a", events: &events},
			fakeJob{name: "b", events: &events, startErr: errors.New("bad schedule")},
			fakeJob{name: "c", events: &events},
		)

		require.Error(t, jm.StartAll())
		assert.Equal(t, []string{"start a", "start b", "stop a"}, events)
	})

	t.Run("real jobs start and stop", func(t *testing.T) {
		f := newFixture(t)
		relay, err := jobs.NewOutboxRelayJob(commands.NewRelayOutboxCommandHandler(f.factory, &countingPublisher{}), 10, f.logger)
		require.NoError(t, err)

		jm := jobs.NewJobManager(f.logger, relay)
		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, 1, f.logs.FilterMessage("Outbox relay job stopped").Len())
	})
}
