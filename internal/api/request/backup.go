package request

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edvin/hrbank/internal/core"
	"github.com/edvin/hrbank/internal/model"
)

// ListBackups holds the query parameters of GET /api/backups.
type ListBackups struct {
	Worker        string `validate:"max=255"`
	Status        string `validate:"omitempty,oneof=IN_PROGRESS COMPLETED FAILED SKIPPED"`
	StartedAtFrom *time.Time
	StartedAtTo   *time.Time
	Pagination
	SortField     string `validate:"oneof=startedAt startAt status"`
	SortDirection string `validate:"oneof=ASC DESC"`
}

// ParseListBackups reads and validates the backup history query. Timestamps
// use RFC 3339; sortDirection is case-insensitive.
func ParseListBackups(r *http.Request) (ListBackups, error) {
	q := r.URL.Query()

	pg, err := ParsePagination(r)
	if err != nil {
		return ListBackups{}, err
	}

	req := ListBackups{
		Worker:        q.Get("worker"),
		Status:        strings.ToUpper(q.Get("status")),
		Pagination:    pg,
		SortField:     stringOr(q.Get("sortField"), "startedAt"),
		SortDirection: strings.ToUpper(stringOr(q.Get("sortDirection"), "DESC")),
	}
	if req.StartedAtFrom, err = parseTime(q.Get("startedAtFrom"), "startedAtFrom"); err != nil {
		return ListBackups{}, err
	}
	if req.StartedAtTo, err = parseTime(q.Get("startedAtTo"), "startedAtTo"); err != nil {
		return ListBackups{}, err
	}
	if req.StartedAtFrom != nil && req.StartedAtTo != nil && req.StartedAtTo.Before(*req.StartedAtFrom) {
		return ListBackups{}, errors.New("startedAtTo must not be before startedAtFrom")
	}

	if err := Validate(req); err != nil {
		return ListBackups{}, err
	}
	return req, nil
}

// Query converts the request into a history query.
func (l ListBackups) Query() core.RunQuery {
	field, _ := core.ParseRunSortField(l.SortField)
	return core.RunQuery{
		Filter: core.RunFilter{
			Worker:        l.Worker,
			Status:        model.BackupStatus(l.Status),
			StartedAtFrom: l.StartedAtFrom,
			StartedAtTo:   l.StartedAtTo,
		},
		Cursor:     l.Cursor,
		IDAfter:    l.IDAfter,
		Size:       l.Size,
		SortField:  field,
		Descending: l.SortDirection == "DESC",
	}
}

// ParseLatestStatus reads the status of GET /api/backups/latest, COMPLETED
// when absent.
func ParseLatestStatus(r *http.Request) (model.BackupStatus, error) {
	status := model.BackupStatus(strings.ToUpper(stringOr(r.URL.Query().Get("status"), string(model.BackupStatusCompleted))))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", r.URL.Query().Get("status"))
	}
	return status, nil
}

func parseTime(v, name string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected RFC 3339 timestamp", name, v)
	}
	return &t, nil
}

func stringOr(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}
