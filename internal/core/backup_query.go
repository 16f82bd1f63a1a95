package core

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/edvin/hrbank/internal/model"
)

// RunSortField names a sortable column of the run history.
type RunSortField string

const (
	SortByStartedAt RunSortField = "startedAt"
	SortByStatus    RunSortField = "status"
)

const (
	DefaultRunPageSize = 10
	MaxRunPageSize     = 200
)

// ParseRunSortField accepts the API spellings of a sort field. "startAt" is
// kept as an alias of startedAt.
func ParseRunSortField(s string) (RunSortField, bool) {
	switch s {
	case "", "startedAt", "startAt":
		return SortByStartedAt, true
	case "status":
		return SortByStatus, true
	}
	return "", false
}

func (f RunSortField) column() string {
	if f == SortByStatus {
		return "status"
	}
	return "started_at"
}

// RunFilter restricts the run history. Zero values match everything.
type RunFilter struct {
	Worker        string
	Status        model.BackupStatus
	StartedAtFrom *time.Time
	StartedAtTo   *time.Time
}

// RunQuery is one page request against the run history. Cursor takes
// precedence over IDAfter when both are set.
type RunQuery struct {
	Filter     RunFilter
	Cursor     string
	IDAfter    *int64
	Size       int
	SortField  RunSortField
	Descending bool
}

func (q RunQuery) normalized() RunQuery {
	if q.Size <= 0 {
		q.Size = DefaultRunPageSize
	}
	if q.Size > MaxRunPageSize {
		q.Size = MaxRunPageSize
	}
	if q.SortField == "" {
		q.SortField = SortByStartedAt
	}
	return q
}

// RunPage is one page of run history.
type RunPage struct {
	Items       []model.BackupRun `json:"items"`
	NextCursor  string            `json:"next_cursor,omitempty"`
	NextIDAfter *int64            `json:"next_id_after,omitempty"`
	Size        int               `json:"size"`
	HasNext     bool              `json:"has_next"`
}

// RunListParams is the resolved form of a RunQuery handed to the store.
type RunListParams struct {
	Filter     RunFilter
	SortField  RunSortField
	Descending bool
	After      *runKeyset
	Limit      int
}

// runKeyset positions a page after the row with the given sort value and id.
// Value is a time.Time for startedAt and a status string for status.
type runKeyset struct {
	ID    int64
	Value any
}

// runCursor is the JSON payload of an opaque cursor.
type runCursor struct {
	ID    int64  `json:"id"`
	Value string `json:"value,omitempty"`
}

func encodeRunCursor(run model.BackupRun, field RunSortField) string {
	c := runCursor{ID: run.ID}
	switch field {
	case SortByStatus:
		c.Value = string(run.Status)
	default:
		c.Value = run.StartedAt.UTC().Format(time.RFC3339Nano)
	}
	b, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(b)
}

// decodeRunCursor turns an opaque cursor into a keyset. A cursor without a
// value, as produced by older clients, yields a keyset with a nil Value which
// the caller resolves by looking the id up.
func decodeRunCursor(s string, field RunSortField) (*runKeyset, error) {
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var c runCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.ID <= 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidCursor)
	}

	ks := &runKeyset{ID: c.ID}
	if c.Value == "" {
		return ks, nil
	}
	switch field {
	case SortByStatus:
		st := model.BackupStatus(strings.ToUpper(c.Value))
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidCursor, c.Value)
		}
		ks.Value = string(st)
	default:
		t, err := time.Parse(time.RFC3339Nano, c.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		ks.Value = t
	}
	return ks, nil
}

func keysetFor(run *model.BackupRun, field RunSortField) *runKeyset {
	if field == SortByStatus {
		return &runKeyset{ID: run.ID, Value: string(run.Status)}
	}
	return &runKeyset{ID: run.ID, Value: run.StartedAt}
}
