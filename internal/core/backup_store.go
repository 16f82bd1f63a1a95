package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edvin/hrbank/internal/model"
	"github.com/jackc/pgx/v5"
)

// backupLockKey is the advisory lock serialising run admission.
const backupLockKey int64 = 0x6872626b5f626b70

const backupRunColumns = `id, worker, started_at, ended_at, status, file_id, created_at, updated_at`

// DecideFunc picks the initial status of a new run from the start time of the
// last completed run, nil when there is none. Queries it needs go through q,
// the admission transaction.
type DecideFunc func(ctx context.Context, q DB, lastCompleted *time.Time) (model.BackupStatus, error)

// BackupRunStore persists backup runs in PostgreSQL.
type BackupRunStore struct {
	db TxDB
}

func NewBackupRunStore(db TxDB) *BackupRunStore {
	return &BackupRunStore{db: db}
}

// Start admits a new run. Inside one transaction it tries the admission lock,
// rejects the request with ErrConflict if the lock is held or a run is
// IN_PROGRESS, asks decide for the initial status and inserts the run. The
// unique partial index on IN_PROGRESS rows backs the check up. Start never
// waits for another admission and uses a single connection.
func (s *BackupRunStore) Start(ctx context.Context, worker string, decide DecideFunc) (*model.BackupRun, error) {
	var run model.BackupRun
	err := runInTx(ctx, s.db, func(tx pgx.Tx) error {
		var locked bool
		if err := tx.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1)`, backupLockKey).Scan(&locked); err != nil {
			return fmt.Errorf("acquire backup lock: %w", err)
		}
		if !locked {
			return ErrConflict
		}

		var inProgress bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM backup_histories WHERE status = $1)`,
			model.BackupStatusInProgress,
		).Scan(&inProgress); err != nil {
			return fmt.Errorf("check in-progress backup: %w", err)
		}
		if inProgress {
			return ErrConflict
		}

		var last *time.Time
		if err := tx.QueryRow(ctx,
			`SELECT max(started_at) FROM backup_histories WHERE status = $1`,
			model.BackupStatusCompleted,
		).Scan(&last); err != nil {
			return fmt.Errorf("find last completed backup: %w", err)
		}

		status, err := decide(ctx, tx, last)
		if err != nil {
			return err
		}

		run = model.BackupRun{Worker: worker, Status: status}
		err = tx.QueryRow(ctx,
			`INSERT INTO backup_histories (worker, started_at, status, created_at, updated_at)
			 VALUES ($1, now(), $2, now(), now())
			 RETURNING id, started_at, created_at, updated_at`,
			worker, status,
		).Scan(&run.ID, &run.StartedAt, &run.CreatedAt, &run.UpdatedAt)
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if err != nil {
			return fmt.Errorf("insert backup run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Finish moves an IN_PROGRESS run to a terminal status, stamping its end time
// and linking the artifact, if any.
func (s *BackupRunStore) Finish(ctx context.Context, id int64, status model.BackupStatus, artifactID *int64) (*model.BackupRun, error) {
	run, err := scanBackupRun(s.db.QueryRow(ctx,
		`UPDATE backup_histories
		 SET status = $1, ended_at = now(), file_id = $2, updated_at = now()
		 WHERE id = $3 AND status = $4
		 RETURNING `+backupRunColumns,
		status, artifactID, id, model.BackupStatusInProgress,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("finish backup run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("finish backup run %d: %w", id, err)
	}
	return run, nil
}

func (s *BackupRunStore) GetByID(ctx context.Context, id int64) (*model.BackupRun, error) {
	run, err := scanBackupRun(s.db.QueryRow(ctx,
		`SELECT `+backupRunColumns+` FROM backup_histories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get backup run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get backup run %d: %w", id, err)
	}
	return run, nil
}

// Latest returns the most recently started run with the given status.
func (s *BackupRunStore) Latest(ctx context.Context, status model.BackupStatus) (*model.BackupRun, error) {
	run, err := scanBackupRun(s.db.QueryRow(ctx,
		`SELECT `+backupRunColumns+` FROM backup_histories
		 WHERE status = $1 ORDER BY started_at DESC, id DESC LIMIT 1`, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("latest %s backup run: %w", status, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s backup run: %w", status, err)
	}
	return run, nil
}

// List returns up to p.Limit runs matching the filter in the requested order,
// ties broken by ascending id, and whether more rows follow.
func (s *BackupRunStore) List(ctx context.Context, p RunListParams) ([]model.BackupRun, bool, error) {
	query, args := buildRunListQuery(p)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list backup runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.BackupRun, 0, p.Limit+1)
	for rows.Next() {
		run, err := scanBackupRun(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan backup run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate backup runs: %w", err)
	}

	hasMore := len(runs) > p.Limit
	if hasMore {
		runs = runs[:p.Limit]
	}
	return runs, hasMore, nil
}

func buildRunListQuery(p RunListParams) (string, []any) {
	query := `SELECT ` + backupRunColumns + ` FROM backup_histories WHERE 1=1`
	var args []any
	argIdx := 1

	if p.Filter.Worker != "" {
		// Substring match; the value is never treated as a LIKE pattern.
		query += fmt.Sprintf(` AND strpos(lower(worker), lower($%d)) > 0`, argIdx)
		args = append(args, p.Filter.Worker)
		argIdx++
	}
	if p.Filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, p.Filter.Status)
		argIdx++
	}
	if p.Filter.StartedAtFrom != nil {
		query += fmt.Sprintf(` AND started_at >= $%d`, argIdx)
		args = append(args, *p.Filter.StartedAtFrom)
		argIdx++
	}
	if p.Filter.StartedAtTo != nil {
		query += fmt.Sprintf(` AND started_at <= $%d`, argIdx)
		args = append(args, *p.Filter.StartedAtTo)
		argIdx++
	}

	col := p.SortField.column()
	dir, cmp := "ASC", ">"
	if p.Descending {
		dir, cmp = "DESC", "<"
	}
	if p.After != nil {
		query += fmt.Sprintf(` AND (%s %s $%d OR (%s = $%d AND id > $%d))`,
			col, cmp, argIdx, col, argIdx, argIdx+1)
		args = append(args, p.After.Value, p.After.ID)
		argIdx += 2
	}

	query += fmt.Sprintf(` ORDER BY %s %s, id ASC LIMIT $%d`, col, dir, argIdx)
	args = append(args, p.Limit+1)
	return query, args
}

func scanBackupRun(row pgx.Row) (*model.BackupRun, error) {
	var run model.BackupRun
	if err := row.Scan(&run.ID, &run.Worker, &run.StartedAt, &run.EndedAt, &run.Status,
		&run.ArtifactID, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	return &run, nil
}
