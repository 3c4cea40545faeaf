package jobs

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// newCron builds a seconds-resolution scheduler whose jobs never overlap
// themselves and whose panics are logged instead of killing the process.
func newCron(logger *zap.Logger) *cron.Cron {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}
