package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when a backup is requested while another run is
	// still IN_PROGRESS.
	ErrConflict = errors.New("a backup is already in progress")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when the physical file behind an
	// artifact is missing.
	ErrArtifactNotFound = errors.New("artifact file not found")

	// ErrInvalidCursor is returned when a pagination cursor cannot be decoded
	// or refers to a run that does not exist.
	ErrInvalidCursor = errors.New("invalid cursor")
)

// ExportIOError reports a failure while producing a snapshot or error log
// file. Op names the step that failed.
type ExportIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *ExportIOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("export %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExportIOError) Unwrap() error { return e.Err }
