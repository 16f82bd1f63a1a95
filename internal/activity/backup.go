package activity

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/edvin/hrbank/internal/core"
	"github.com/edvin/hrbank/internal/model"
)

// Error types reported to workflows.
const (
	ErrTypeBackupConflict = "BackupConflict"
	ErrTypeBackupFailed   = "BackupFailed"
)

// BackupRunner is the part of core.BackupService used by scheduled runs.
type BackupRunner interface {
	PerformBackup(ctx context.Context, worker string) (*model.BackupRun, error)
}

// Backup contains activities for scheduled backups.
type Backup struct {
	svc BackupRunner
}

func NewBackup(svc BackupRunner) *Backup {
	return &Backup{svc: svc}
}

// PerformScheduledBackup runs one backup as the system worker. Errors are
// non-retryable: a failed run is already recorded with its error log, and a
// conflicting run belongs to another caller.
func (a *Backup) PerformScheduledBackup(ctx context.Context) (*model.BackupRun, error) {
	logger := activity.GetLogger(ctx)

	run, err := a.svc.PerformBackup(ctx, model.SystemWorker)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			logger.Info("backup already in progress, skipping scheduled run")
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeBackupConflict, err)
		}
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeBackupFailed, err)
	}

	logger.Info("scheduled backup finished", "runID", run.ID, "status", run.Status)
	return run, nil
}
