package core

import (
	"context"
	"fmt"
	"time"
)

// AuditTrail counts change-log entries on q.
type AuditTrail interface {
	CountCreatedAfter(ctx context.Context, q DB, after time.Time) (int64, error)
}

// ChangeDetector decides whether the HR data changed since the last
// completed backup.
type ChangeDetector struct {
	audit AuditTrail
}

func NewChangeDetector(audit AuditTrail) *ChangeDetector {
	return &ChangeDetector{audit: audit}
}

// HasChangesSince reports whether any change-log entry was created strictly
// after last, reading through q. With no previous completed backup there is
// always something to back up.
func (d *ChangeDetector) HasChangesSince(ctx context.Context, q DB, last *time.Time) (bool, error) {
	if last == nil {
		return true, nil
	}
	n, err := d.audit.CountCreatedAfter(ctx, q, *last)
	if err != nil {
		return false, fmt.Errorf("count changes since %s: %w", last.Format(time.RFC3339), err)
	}
	return n > 0, nil
}
