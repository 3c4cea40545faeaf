package jobs

import (
	"context"

	"dormeal/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AutoDeliveryJob closes orders that stayed Retrieved past the auto-deliver
// window. Runs every minute.
type AutoDeliveryJob struct {
	handler commands.AutoDeliverCommandHandler
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewAutoDeliveryJob(handler commands.AutoDeliverCommandHandler, logger *zap.Logger) *AutoDeliveryJob {
	logger = logger.With(zap.String("component", "auto_delivery_job"))
	return &AutoDeliveryJob{
		handler: handler,
		cron:    newCron(logger),
		logger:  logger,
	}
}

func (j *AutoDeliveryJob) Start() error {
	if _, err := j.cron.AddFunc("0 * * * * *", func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Auto delivery job started (running every minute)")
	return nil
}

// Run performs one sweep.
func (j *AutoDeliveryJob) Run(ctx context.Context) {
	delivered, err := j.handler.Handle(ctx, commands.NewAutoDeliverCommand())
	if err != nil {
		j.logger.Error("Auto delivery job failed", zap.Error(err))
	}
	if len(delivered) > 0 {
		j.logger.Info("orders auto-delivered", zap.Stringers("orderIds", delivered))
	}
}

func (j *AutoDeliveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Auto delivery job stopped")
}
