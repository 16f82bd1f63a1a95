package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linesOf(lines ...string) LineSource {
	return func(yield func(string, error) bool) {
		for _, l := range lines {
			if !yield(l, nil) {
				return
			}
		}
	}
}

// failingAt yields lines until element k (1-based), which is an error.
func failingAt(k int, cause error, lines ...string) LineSource {
	return func(yield func(string, error) bool) {
		for i, l := range lines {
			if i+1 == k {
				yield("", cause)
				return
			}
			if !yield(l, nil) {
				return
			}
		}
	}
}

func newTestExporter(t *testing.T) (*SnapshotExporter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "backups")
	e, err := NewSnapshotExporter(dir)
	require.NoError(t, err)
	return e, dir
}

func TestNewSnapshotExporter_CreatesDirectory(t *testing.T) {
	_, dir := newTestExporter(t)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExportCSV_WritesBOMThenLines(t *testing.T) {
	e, dir := newTestExporter(t)

	path, err := e.ExportCSV(linesOf("id,name", "1,Kim", "2,Lee"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, `^backup_\d+_[0-9a-f]{8}\.csv$`, filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\uFEFFid,name\n1,Kim\n2,Lee\n", string(data))
}

func TestExportCSV_EmptySourceWritesOnlyBOM(t *testing.T) {
	e, _ := newTestExporter(t)

	path, err := e.ExportCSV(linesOf())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data)
}

func TestExportCSV_LineCountMatchesSource(t *testing.T) {
	e, _ := newTestExporter(t)
	lines := make([]string, 5000)
	for i := range lines {
		lines[i] = strings.Repeat("x", i%40)
	}

	path, err := e.ExportCSV(linesOf(lines...))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := strings.TrimPrefix(string(data), "\uFEFF")
	assert.Equal(t, len(lines), strings.Count(body, "\n"))
}

func TestExportCSV_SourceErrorKeepsCompleteLines(t *testing.T) {
	e, _ := newTestExporter(t)
	cause := errors.New("connection reset")

	path, err := e.ExportCSV(failingAt(3, cause, "a", "b", "c", "d"))
	require.Error(t, err)
	require.NotEmpty(t, path)

	var ioErr *ExportIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read source", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
	assert.ErrorIs(t, err, cause)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\uFEFFa\nb\n", string(data))
}

func TestExportCSV_SourceErrorOnFirstElement(t *testing.T) {
	e, _ := newTestExporter(t)

	path, err := e.ExportCSV(failingAt(1, errors.New("boom"), "a"))
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "\uFEFF", string(data))
}

func TestExportCSV_CreateFailureReturnsNoPath(t *testing.T) {
	e, dir := newTestExporter(t)
	require.NoError(t, os.RemoveAll(dir))

	path, err := e.ExportCSV(linesOf("a"))
	require.Error(t, err)
	assert.Empty(t, path)

	var ioErr *ExportIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "create", ioErr.Op)
}

// shortFile accepts up to limit bytes and then fails every write with
// syscall.ENOSPC, the way a full disk does.
type shortFile struct {
	limit   int
	written int
	closed  bool
}

func (f *shortFile) Write(p []byte) (int, error) {
	room := f.limit - f.written
	if room <= 0 {
		return 0, syscall.ENOSPC
	}
	if len(p) > room {
		f.written += room
		return room, syscall.ENOSPC
	}
	f.written += len(p)
	return len(p), nil
}

func (f *shortFile) Sync() error  { return nil }
func (f *shortFile) Close() error { f.closed = true; return nil }

func TestExportCSV_WriteFailureMidStream(t *testing.T) {
	e, dir := newTestExporter(t)
	file := &shortFile{limit: 4096}
	e.create = func(string) (exportFile, error) { return file, nil }

	line := strings.Repeat("x", 1023)
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = line
	}

	path, err := e.ExportCSV(linesOf(lines...))
	require.Error(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	var ioErr *ExportIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
	assert.ErrorIs(t, err, syscall.ENOSPC)
	assert.True(t, file.closed)
}

func TestExportCSV_FlushFailure(t *testing.T) {
	e, dir := newTestExporter(t)
	file := &shortFile{limit: 2}
	e.create = func(string) (exportFile, error) { return file, nil }

	path, err := e.ExportCSV(linesOf("id,name", "1,Kim"))
	require.Error(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	var ioErr *ExportIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "flush", ioErr.Op)
	assert.ErrorIs(t, err, syscall.ENOSPC)
	assert.True(t, file.closed)
}

func TestExportCSV_DistinctNamesInSameMillisecond(t *testing.T) {
	e, _ := newTestExporter(t)

	first, err := e.ExportCSV(linesOf("a"))
	require.NoError(t, err)
	second, err := e.ExportCSV(linesOf("a"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestExportIOError_Message(t *testing.T) {
	err := &ExportIOError{Op: "write", Path: "/tmp/x.csv", Err: errors.New("disk full")}
	assert.Equal(t, "export write /tmp/x.csv: disk full", err.Error())

	err = &ExportIOError{Op: "write", Err: errors.New("disk full")}
	assert.Equal(t, "export write: disk full", err.Error())
}
