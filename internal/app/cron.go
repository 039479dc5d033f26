package app

import (
	"context"
	"time"

	pkgcron "github.com/solsticehq/solstice-api/internal/pkg/cron"
	"github.com/solsticehq/solstice-api/internal/pkg/dispatchlog"
	"go.uber.org/zap"
)

// registerCronJobs registers the scheduled background jobs: intake retention
// and dispatch journal cleanup.
func (a *App) registerCronJobs() {
	cronLogger := a.logger.Named("cron")
	journal := dispatchlog.NewService(a.rc)

	a.sched.Register(pkgcron.Job{
		Name:        "purge_expired_inquiries",
		Description: "remove intake submissions past the retention window",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			removed, err := a.intakeSvc.PurgeExpired()
			if err != nil {
				cronLogger.Warn("inquiry purge failed", zap.Error(err))
				return err
			}
			if removed > 0 {
				cronLogger.Info("purged expired inquiries", zap.Int64("removed", removed))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "cleanup_dispatch_journal",
		Description: "drop dispatch journal entries older than 30 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -30)
			if err := journal.DeleteFinishedBefore(ctx, cutoff); err != nil {
				cronLogger.Warn("dispatch journal cleanup failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
