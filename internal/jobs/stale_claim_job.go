package jobs

import (
	"context"

	"dormeal/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StaleClaimJob looks for claims nobody picked up within the stale window.
// Runs every 30 seconds.
type StaleClaimJob struct {
	handler commands.ReopenStaleClaimsCommandHandler
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewStaleClaimJob(handler commands.ReopenStaleClaimsCommandHandler, logger *zap.Logger) *StaleClaimJob {
	logger = logger.With(zap.String("component", "stale_claim_job"))
	return &StaleClaimJob{
		handler: handler,
		cron:    newCron(logger),
		logger:  logger,
	}
}

func (j *StaleClaimJob) Start() error {
	if _, err := j.cron.AddFunc("*/30 * * * * *", func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Stale claim job started (running every 30 seconds)")
	return nil
}

// Run performs one sweep.
func (j *StaleClaimJob) Run(ctx context.Context) {
	result, err := j.handler.Handle(ctx, commands.NewReopenStaleClaimsCommand())
	if err != nil {
		j.logger.Error("Stale claim job failed", zap.Error(err))
	}
	if len(result.Stale) > 0 {
		j.logger.Warn("stale claims found",
			zap.Int("stale", len(result.Stale)),
			zap.Int("reopened", len(result.Reopened)),
			zap.Stringers("orderIds", result.Stale),
		)
	}
}

func (j *StaleClaimJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Stale claim job stopped")
}
