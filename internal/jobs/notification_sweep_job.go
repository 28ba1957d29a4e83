package jobs

import (
	"context"
	"log/slog"

	"haulboard/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationSweepJob periodically re-fires the scheduling notification for
// pending delivery jobs whose mark is still unsent. Together with the create
// trigger this makes notification delivery at-least-once at the trigger
// level while the dispatcher keeps the outbound call at-most-once.
type NotificationSweepJob struct {
	handler  commands.SweepNotificationsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNotificationSweepJob creates the sweep job with a cron schedule
// expression, e.g. "@every 1m".
func NewNotificationSweepJob(
	handler commands.SweepNotificationsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *NotificationSweepJob {
	return &NotificationSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "notification_sweep_job"),
	}
}

// Start begins the periodic sweep.
func (j *NotificationSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewSweepNotificationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Notification sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the sweep job.
func (j *NotificationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification sweep job stopped")
}
