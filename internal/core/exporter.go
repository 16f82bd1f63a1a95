package core

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/edvin/hrbank/internal/platform"
)

// LineSource lazily yields pre-formatted export lines. A non-nil error
// terminates the sequence.
type LineSource = iter.Seq2[string, error]

const (
	utf8BOM          = "\uFEFF"
	exportBufferSize = 64 * 1024
)

// SnapshotExporter streams line sources into CSV files under a single
// backup directory.
type SnapshotExporter struct {
	dir    string
	now    func() time.Time
	create func(path string) (exportFile, error)
}

// exportFile is the part of *os.File the exporter writes through.
type exportFile interface {
	io.Writer
	Sync() error
	Close() error
}

func createExclusive(path string) (exportFile, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewSnapshotExporter returns an exporter writing into dir, creating the
// directory when it does not exist.
func NewSnapshotExporter(dir string) (*SnapshotExporter, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup directory %s: %w", dir, err)
	}
	return &SnapshotExporter{dir: dir, now: time.Now, create: createExclusive}, nil
}

// ExportCSV writes a BOM followed by every line of src, each terminated by
// "\n", and returns the path of the new file.
//
// When writing fails part way the partial file is flushed and kept, and its
// path is returned together with the error so the caller can discard it. The
// returned path is empty only if the file could not be created.
func (e *SnapshotExporter) ExportCSV(src LineSource) (string, error) {
	path := filepath.Join(e.dir, platform.BackupFileName(e.now()))

	f, err := e.create(path)
	if err != nil {
		return "", &ExportIOError{Op: "create", Path: path, Err: err}
	}

	w := bufio.NewWriterSize(f, exportBufferSize)
	if err := writeLines(w, path, src); err != nil {
		w.Flush() //nolint:errcheck
		f.Close()
		return path, err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return path, &ExportIOError{Op: "flush", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return path, &ExportIOError{Op: "sync", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return path, &ExportIOError{Op: "close", Path: path, Err: err}
	}
	return path, nil
}

func writeLines(w *bufio.Writer, path string, src LineSource) error {
	if _, err := w.WriteString(utf8BOM); err != nil {
		return &ExportIOError{Op: "write", Path: path, Err: err}
	}
	for line, err := range src {
		if err != nil {
			return &ExportIOError{Op: "read source", Path: path, Err: err}
		}
		if _, err := w.WriteString(line); err != nil {
			return &ExportIOError{Op: "write", Path: path, Err: err}
		}
		if err := w.WriteByte('\n'); err != nil {
			return &ExportIOError{Op: "write", Path: path, Err: err}
		}
	}
	return nil
}
