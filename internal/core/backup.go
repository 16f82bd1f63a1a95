package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edvin/hrbank/internal/metrics"
	"github.com/edvin/hrbank/internal/model"
	"github.com/rs/zerolog"
)

// RunStore persists backup runs.
type RunStore interface {
	Start(ctx context.Context, worker string, decide DecideFunc) (*model.BackupRun, error)
	Finish(ctx context.Context, id int64, status model.BackupStatus, artifactID *int64) (*model.BackupRun, error)
	GetByID(ctx context.Context, id int64) (*model.BackupRun, error)
	Latest(ctx context.Context, status model.BackupStatus) (*model.BackupRun, error)
	List(ctx context.Context, p RunListParams) ([]model.BackupRun, bool, error)
}

// ChangeChecker reports whether anything changed since the given time.
type ChangeChecker interface {
	HasChangesSince(ctx context.Context, q DB, last *time.Time) (bool, error)
}

// Exporter writes a line source to a new file and returns its path.
type Exporter interface {
	ExportCSV(src LineSource) (string, error)
}

// ExportSource produces the lines of a snapshot.
type ExportSource interface {
	Lines(ctx context.Context) LineSource
}

// ArtifactRegistry tracks physical files and their metadata.
type ArtifactRegistry interface {
	Create(ctx context.Context, path string) (*model.Artifact, error)
	DeleteFile(a *model.Artifact) (bool, error)
	DeleteRecord(ctx context.Context, id int64) error
}

// ErrorLogger persists a failure report and returns the file path.
type ErrorLogger interface {
	Write(cause error) (string, error)
}

// BackupDeps are the collaborators of a BackupService. Mirror is optional.
type BackupDeps struct {
	Runs      RunStore
	Changes   ChangeChecker
	Exporter  Exporter
	Source    ExportSource
	Artifacts ArtifactRegistry
	ErrorLogs ErrorLogger
	Mirror    ArtifactMirror
}

// BackupService runs the exclusive snapshot job and answers history queries.
type BackupService struct {
	runs      RunStore
	changes   ChangeChecker
	exporter  Exporter
	source    ExportSource
	artifacts ArtifactRegistry
	errorLogs ErrorLogger
	mirror    ArtifactMirror
	logger    zerolog.Logger
}

func NewBackupService(deps BackupDeps, logger zerolog.Logger) *BackupService {
	return &BackupService{
		runs:      deps.Runs,
		changes:   deps.Changes,
		exporter:  deps.Exporter,
		source:    deps.Source,
		artifacts: deps.Artifacts,
		errorLogs: deps.ErrorLogs,
		mirror:    deps.Mirror,
		logger:    logger.With().Str("component", "backup").Logger(),
	}
}

// PerformBackup runs one backup on behalf of worker.
//
// It returns ErrConflict without side effects when another run is
// IN_PROGRESS, and a SKIPPED run when nothing changed since the last
// completed one. Otherwise the snapshot is exported and the run ends
// COMPLETED. Any failure after admission deletes the partial snapshot,
// records an error log artifact, marks the run FAILED and returns the
// original error. Once admitted, the run ignores cancellation of ctx so it
// always reaches a terminal status.
func (s *BackupService) PerformBackup(ctx context.Context, worker string) (*model.BackupRun, error) {
	began := time.Now()
	logger := s.logger.With().Str("worker", worker).Logger()

	run, err := s.runs.Start(ctx, worker, s.decide)
	if errors.Is(err, ErrConflict) {
		metrics.ObserveBackupConflict()
		logger.Warn().Msg("backup rejected: another run is in progress")
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("start backup: %w", err)
	}

	logger = logger.With().Int64("run_id", run.ID).Logger()
	if run.Status == model.BackupStatusSkipped {
		metrics.ObserveBackupRun(string(run.Status), time.Since(began))
		logger.Info().Msg("backup skipped: no changes since last completed run")
		return run, nil
	}

	ctx = context.WithoutCancel(ctx)
	logger.Info().Msg("backup started")

	path, err := s.exporter.ExportCSV(s.source.Lines(ctx))
	if err != nil {
		return s.fail(ctx, logger, run, began, path, nil, err)
	}

	artifact, err := s.artifacts.Create(ctx, path)
	if err != nil {
		return s.fail(ctx, logger, run, began, path, nil, fmt.Errorf("register snapshot: %w", err))
	}

	done, err := s.runs.Finish(ctx, run.ID, model.BackupStatusCompleted, &artifact.ID)
	if err != nil {
		return s.fail(ctx, logger, run, began, path, artifact, fmt.Errorf("complete backup run: %w", err))
	}

	metrics.ObserveBackupRun(string(done.Status), time.Since(began))
	metrics.SetBackupArtifactBytes(artifact.SizeBytes)
	logger.Info().
		Int64("artifact_id", artifact.ID).
		Int64("size_bytes", artifact.SizeBytes).
		Dur("duration", time.Since(began)).
		Msg("backup completed")

	s.mirrorSnapshot(ctx, logger, artifact)
	return done, nil
}

func (s *BackupService) decide(ctx context.Context, q DB, lastCompleted *time.Time) (model.BackupStatus, error) {
	changed, err := s.changes.HasChangesSince(ctx, q, lastCompleted)
	if err != nil {
		return "", err
	}
	if !changed {
		return model.BackupStatusSkipped, nil
	}
	return model.BackupStatusInProgress, nil
}

// fail runs the failure protocol for an admitted run and returns cause.
// Secondary failures are logged and never replace cause; only a failure to
// mark the run FAILED is joined to it.
func (s *BackupService) fail(ctx context.Context, logger zerolog.Logger, run *model.BackupRun, began time.Time, path string, snapshot *model.Artifact, cause error) (*model.BackupRun, error) {
	logger.Error().Err(cause).Str("path", path).Msg("backup failed")

	s.discardSnapshot(ctx, logger, path, snapshot)

	var logID *int64
	if a := s.recordErrorLog(ctx, logger, cause); a != nil {
		logID = &a.ID
	}

	if _, err := s.runs.Finish(ctx, run.ID, model.BackupStatusFailed, logID); err != nil {
		logger.Error().Err(err).Msg("failed to mark backup run FAILED")
		return nil, errors.Join(cause, fmt.Errorf("mark backup run %d failed: %w", run.ID, err))
	}
	metrics.ObserveBackupRun(string(model.BackupStatusFailed), time.Since(began))
	return nil, cause
}

func (s *BackupService) discardSnapshot(ctx context.Context, logger zerolog.Logger, path string, snapshot *model.Artifact) {
	if path == "" {
		return
	}
	target := snapshot
	if target == nil {
		target = &model.Artifact{StoragePath: path}
	}
	if _, err := s.artifacts.DeleteFile(target); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to delete partial snapshot")
	}
	if snapshot != nil {
		if err := s.artifacts.DeleteRecord(ctx, snapshot.ID); err != nil {
			logger.Error().Err(err).Int64("artifact_id", snapshot.ID).Msg("failed to delete snapshot metadata")
		}
	}
}

func (s *BackupService) recordErrorLog(ctx context.Context, logger zerolog.Logger, cause error) *model.Artifact {
	path, err := s.errorLogs.Write(cause)
	if err != nil {
		logger.Error().Err(err).Msg("failed to write error log")
		return nil
	}
	a, err := s.artifacts.Create(ctx, path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to register error log")
		return nil
	}
	return a
}

func (s *BackupService) mirrorSnapshot(ctx context.Context, logger zerolog.Logger, a *model.Artifact) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Mirror(ctx, a); err != nil {
		metrics.ObserveMirrorFailure()
		logger.Warn().Err(err).Int64("artifact_id", a.ID).Msg("snapshot mirror failed")
		return
	}
	logger.Debug().Int64("artifact_id", a.ID).Msg("snapshot mirrored")
}

// Latest returns the most recent run with the given status.
func (s *BackupService) Latest(ctx context.Context, status model.BackupStatus) (*model.BackupRun, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown backup status %q", status)
	}
	return s.runs.Latest(ctx, status)
}

func (s *BackupService) GetByID(ctx context.Context, id int64) (*model.BackupRun, error) {
	return s.runs.GetByID(ctx, id)
}

// ListRuns returns one page of run history. Cursor wins over IDAfter.
func (s *BackupService) ListRuns(ctx context.Context, q RunQuery) (*RunPage, error) {
	q = q.normalized()

	after, err := s.resolveKeyset(ctx, q)
	if err != nil {
		return nil, err
	}

	runs, hasNext, err := s.runs.List(ctx, RunListParams{
		Filter:     q.Filter,
		SortField:  q.SortField,
		Descending: q.Descending,
		After:      after,
		Limit:      q.Size,
	})
	if err != nil {
		return nil, err
	}

	page := &RunPage{Items: runs, Size: q.Size, HasNext: hasNext}
	if hasNext && len(runs) > 0 {
		last := runs[len(runs)-1]
		page.NextCursor = encodeRunCursor(last, q.SortField)
		page.NextIDAfter = &last.ID
	}
	return page, nil
}

func (s *BackupService) resolveKeyset(ctx context.Context, q RunQuery) (*runKeyset, error) {
	var id int64
	switch {
	case q.Cursor != "":
		ks, err := decodeRunCursor(q.Cursor, q.SortField)
		if err != nil {
			return nil, err
		}
		if ks.Value != nil {
			return ks, nil
		}
		id = ks.ID
	case q.IDAfter != nil:
		id = *q.IDAfter
	default:
		return nil, nil
	}

	anchor, err := s.runs.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: run %d does not exist", ErrInvalidCursor, id)
	}
	if err != nil {
		return nil, err
	}
	return keysetFor(anchor, q.SortField), nil
}
