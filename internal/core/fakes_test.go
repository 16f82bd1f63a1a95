package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edvin/hrbank/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// ---------- Run store ----------

// fakeRunStore is an in-memory RunStore with the same admission and keyset
// semantics as BackupRunStore.
type fakeRunStore struct {
	mu        sync.Mutex
	runs      []*model.BackupRun
	nextID    int64
	clock     time.Time
	finishErr map[model.BackupStatus]error
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{
		nextID:    1,
		clock:     time.Date(2025, 10, 18, 9, 0, 0, 0, time.UTC),
		finishErr: map[model.BackupStatus]error{},
	}
}

func (f *fakeRunStore) seed(worker string, started time.Time, status model.BackupStatus) *model.BackupRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	run := &model.BackupRun{Base: model.Base{ID: f.nextID}, Worker: worker, StartedAt: started, Status: status}
	f.nextID++
	f.runs = append(f.runs, run)
	return run
}

func (f *fakeRunStore) Start(ctx context.Context, worker string, decide DecideFunc) (*model.BackupRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var last *time.Time
	for _, r := range f.runs {
		if r.Status == model.BackupStatusInProgress {
			return nil, ErrConflict
		}
		if r.Status == model.BackupStatusCompleted && (last == nil || r.StartedAt.After(*last)) {
			t := r.StartedAt
			last = &t
		}
	}

	status, err := decide(ctx, nil, last)
	if err != nil {
		return nil, err
	}

	f.clock = f.clock.Add(time.Second)
	run := &model.BackupRun{Base: model.Base{ID: f.nextID}, Worker: worker, StartedAt: f.clock, Status: status}
	f.nextID++
	f.runs = append(f.runs, run)
	cp := *run
	return &cp, nil
}

func (f *fakeRunStore) Finish(_ context.Context, id int64, status model.BackupStatus, artifactID *int64) (*model.BackupRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.finishErr[status]; err != nil {
		return nil, err
	}
	for _, r := range f.runs {
		if r.ID == id && r.Status == model.BackupStatusInProgress {
			ended := f.clock.Add(time.Millisecond)
			r.Status = status
			r.EndedAt = &ended
			r.ArtifactID = artifactID
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRunStore) GetByID(_ context.Context, id int64) (*model.BackupRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.runs {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRunStore) Latest(_ context.Context, status model.BackupStatus) (*model.BackupRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.BackupRun
	for _, r := range f.runs {
		if r.Status == status && (latest == nil || r.StartedAt.After(latest.StartedAt)) {
			latest = r
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeRunStore) List(_ context.Context, p RunListParams) ([]model.BackupRun, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.BackupRun
	for _, r := range f.runs {
		if fakeMatches(r, p.Filter) && fakeAfter(r, p) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		c := fakeCompare(&out[i], sortValueOf(&out[j], p.SortField), p.SortField)
		if c != 0 {
			if p.Descending {
				return c > 0
			}
			return c < 0
		}
		return out[i].ID < out[j].ID
	})

	hasMore := len(out) > p.Limit
	if hasMore {
		out = out[:p.Limit]
	}
	return out, hasMore, nil
}

func (f *fakeRunStore) byID(id int64) model.BackupRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.runs {
		if r.ID == id {
			return *r
		}
	}
	return model.BackupRun{}
}

func (f *fakeRunStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func fakeMatches(r *model.BackupRun, fl RunFilter) bool {
	if fl.Worker != "" && !strings.Contains(strings.ToLower(r.Worker), strings.ToLower(fl.Worker)) {
		return false
	}
	if fl.Status != "" && r.Status != fl.Status {
		return false
	}
	if fl.StartedAtFrom != nil && r.StartedAt.Before(*fl.StartedAtFrom) {
		return false
	}
	if fl.StartedAtTo != nil && r.StartedAt.After(*fl.StartedAtTo) {
		return false
	}
	return true
}

func fakeAfter(r *model.BackupRun, p RunListParams) bool {
	if p.After == nil {
		return true
	}
	c := fakeCompare(r, p.After.Value, p.SortField)
	if p.Descending {
		return c < 0 || (c == 0 && r.ID > p.After.ID)
	}
	return c > 0 || (c == 0 && r.ID > p.After.ID)
}

func sortValueOf(r *model.BackupRun, field RunSortField) any {
	if field == SortByStatus {
		return string(r.Status)
	}
	return r.StartedAt
}

func fakeCompare(r *model.BackupRun, v any, field RunSortField) int {
	if field == SortByStatus {
		return strings.Compare(string(r.Status), v.(string))
	}
	return r.StartedAt.Compare(v.(time.Time))
}

// ---------- Change checker ----------

type fakeChanges struct {
	mu      sync.Mutex
	changed bool
	err     error
	seen    []*time.Time
}

func (f *fakeChanges) HasChangesSince(_ context.Context, _ DB, last *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, last)
	if f.err != nil {
		return false, f.err
	}
	return last == nil || f.changed, nil
}

// ---------- Export source ----------

type fakeSource struct {
	lines func(ctx context.Context) LineSource
}

func (f fakeSource) Lines(ctx context.Context) LineSource { return f.lines(ctx) }

func staticSource(lines ...string) fakeSource {
	return fakeSource{lines: func(context.Context) LineSource { return linesOf(lines...) }}
}

// ---------- Artifacts ----------

type fakeArtifacts struct {
	mu        sync.Mutex
	byID      map[int64]*model.Artifact
	nextID    int64
	createErr func(path string) error
	deleteErr error
}

func newFakeArtifacts() *fakeArtifacts {
	return &fakeArtifacts{byID: map[int64]*model.Artifact{}, nextID: 100}
}

func (f *fakeArtifacts) Create(_ context.Context, path string) (*model.Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if err := f.createErr(path); err != nil {
			return nil, err
		}
	}
	a, err := inspectArtifact(path)
	if err != nil {
		return nil, err
	}
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.nextID++
	f.byID[a.ID] = a
	cp := *a
	return &cp, nil
}

func (f *fakeArtifacts) DeleteFile(a *model.Artifact) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	err := os.Remove(a.StoragePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeArtifacts) DeleteRecord(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeArtifacts) get(id int64) *model.Artifact {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeArtifacts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// ---------- Error logs ----------

type failingErrorLogs struct{ err error }

func (f failingErrorLogs) Write(error) (string, error) { return "", f.err }

// ---------- Mirror ----------

type fakeMirror struct {
	mu       sync.Mutex
	mirrored []int64
	err      error
}

func (f *fakeMirror) Mirror(_ context.Context, a *model.Artifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mirrored = append(f.mirrored, a.ID)
	return f.err
}

// ---------- Harness ----------

type backupHarness struct {
	svc       *BackupService
	runs      *fakeRunStore
	changes   *fakeChanges
	artifacts *fakeArtifacts
	backupDir string
	logDir    string
}

func newBackupHarness(t *testing.T, src ExportSource, opts ...func(*BackupDeps)) *backupHarness {
	t.Helper()
	root := t.TempDir()
	backupDir := filepath.Join(root, "backups")
	logDir := filepath.Join(root, "logs")

	exporter, err := NewSnapshotExporter(backupDir)
	require.NoError(t, err)
	errorLogs, err := NewErrorLogWriter(logDir)
	require.NoError(t, err)

	h := &backupHarness{
		runs:      newFakeRunStore(),
		changes:   &fakeChanges{},
		artifacts: newFakeArtifacts(),
		backupDir: backupDir,
		logDir:    logDir,
	}
	deps := BackupDeps{
		Runs:      h.runs,
		Changes:   h.changes,
		Exporter:  exporter,
		Source:    src,
		Artifacts: h.artifacts,
		ErrorLogs: errorLogs,
	}
	for _, o := range opts {
		o(&deps)
	}
	h.svc = NewBackupService(deps, zerolog.Nop())
	return h
}

func filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
