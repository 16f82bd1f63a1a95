package request

import (
	"fmt"
	"net/http"
	"strconv"
)

// Pagination holds parsed cursor pagination parameters.
type Pagination struct {
	Size    int
	Cursor  string
	IDAfter *int64
}

const (
	DefaultSize = 10
	MaxSize     = 200
)

// ParsePagination extracts size, cursor and idAfter from query parameters.
// A missing or unparsable size falls back to DefaultSize and sizes above
// MaxSize are clamped. A malformed idAfter is an error.
func ParsePagination(r *http.Request) (Pagination, error) {
	q := r.URL.Query()
	p := Pagination{
		Size:   DefaultSize,
		Cursor: q.Get("cursor"),
	}

	if sizeStr := q.Get("size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			p.Size = size
		}
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}

	if v := q.Get("idAfter"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return p, fmt.Errorf("invalid idAfter %q: must be a positive integer", v)
		}
		p.IDAfter = &id
	}

	return p, nil
}
