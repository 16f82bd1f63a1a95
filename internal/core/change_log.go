package core

import (
	"context"
	"fmt"
	"time"

	"github.com/edvin/hrbank/internal/model"
)

// ChangeLogService reads and appends employee change-log entries.
type ChangeLogService struct {
	db DB
}

func NewChangeLogService(db DB) *ChangeLogService {
	return &ChangeLogService{db: db}
}

// CountCreatedAfter returns the number of entries created strictly after t.
// The count runs on q when given, so callers inside a transaction stay on
// their connection, and on the service's pool otherwise.
func (s *ChangeLogService) CountCreatedAfter(ctx context.Context, q DB, t time.Time) (int64, error) {
	if q == nil {
		q = s.db
	}
	var n int64
	if err := q.QueryRow(ctx,
		`SELECT count(*) FROM change_logs WHERE created_at > $1`, t,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count change logs: %w", err)
	}
	return n, nil
}

func (s *ChangeLogService) Record(ctx context.Context, entry *model.ChangeLog) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO change_logs (type, employee_number, memo, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, created_at`,
		entry.Type, entry.EmployeeNumber, entry.Memo, entry.IPAddress,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert change log for %s: %w", entry.EmployeeNumber, err)
	}
	return nil
}
