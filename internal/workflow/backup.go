package workflow

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/hrbank/internal/activity"
	"github.com/edvin/hrbank/internal/model"
)

// ScheduledBackupWorkflow runs one system backup. It is started by the
// backup cron schedule. A run that loses admission to another backup is
// treated as done.
func ScheduledBackupWorkflow(ctx workflow.Context) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var run model.BackupRun
	err := workflow.ExecuteActivity(ctx, "PerformScheduledBackup").Get(ctx, &run)
	if err != nil {
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) && appErr.Type() == activity.ErrTypeBackupConflict {
			logger.Info("backup already in progress, scheduled run skipped")
			return nil
		}
		return err
	}

	logger.Info("scheduled backup finished", "runID", run.ID, "status", run.Status)
	return nil
}
