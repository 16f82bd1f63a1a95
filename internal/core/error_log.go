package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/edvin/hrbank/internal/platform"
)

// ErrorLogWriter persists failure reports as plain-text files.
type ErrorLogWriter struct {
	dir string
	now func() time.Time
}

// NewErrorLogWriter returns a writer that stores logs in dir, creating it
// when needed.
func NewErrorLogWriter(dir string) (*ErrorLogWriter, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create error log directory %s: %w", dir, err)
	}
	return &ErrorLogWriter{dir: dir, now: time.Now}, nil
}

// Write records cause in a new log file and returns its path.
func (w *ErrorLogWriter) Write(cause error) (string, error) {
	at := w.now()
	path := filepath.Join(w.dir, platform.ErrorLogFileName(at))
	if err := os.WriteFile(path, []byte(formatErrorLog(at, cause, debug.Stack())), 0o640); err != nil {
		return "", &ExportIOError{Op: "write error log", Path: path, Err: err}
	}
	return path, nil
}

func formatErrorLog(at time.Time, cause error, stack []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "timestamp: %s\n", at.UTC().Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "message: %s\n", errorMessage(cause))

	b.WriteString("cause chain:\n")
	root := cause
	for err := cause; err != nil; err = errors.Unwrap(err) {
		fmt.Fprintf(&b, "  %T: %s\n", err, err.Error())
		root = err
	}
	if root != nil {
		fmt.Fprintf(&b, "root cause: %T: %s\n", root, root.Error())
	}

	b.WriteString("stack:\n")
	b.Write(stack)
	if len(stack) == 0 || stack[len(stack)-1] != '\n' {
		b.WriteByte('\n')
	}
	return b.String()
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
