package jobs

import (
	"context"

	"dormeal/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OutboxRelayJob publishes pending order events every second. A tick is
// skipped while the previous one is still publishing.
type OutboxRelayJob struct {
	handler commands.RelayOutboxCommandHandler
	cmd     commands.RelayOutboxCommand
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewOutboxRelayJob(handler commands.RelayOutboxCommandHandler, batchSize int, logger *zap.Logger) (*OutboxRelayJob, error) {
	cmd, err := commands.NewRelayOutboxCommand(batchSize)
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("component", "outbox_relay_job"))
	return &OutboxRelayJob{
		handler: handler,
		cmd:     cmd,
		cron:    newCron(logger),
		logger:  logger,
	}, nil
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc("* * * * * *", func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Outbox relay job started (running every second)")
	return nil
}

// Run drains full batches until the outbox is empty or publishing fails.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	for {
		n, err := j.handler.Handle(ctx, j.cmd)
		if err != nil {
			j.logger.Error("Outbox relay job failed", zap.Error(err))
			return
		}
		if n > 0 {
			j.logger.Debug("order events published", zap.Int("count", n))
		}
		if n < j.cmd.BatchSize() {
			return
		}
	}
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Outbox relay job stopped")
}
