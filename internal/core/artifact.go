package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/edvin/hrbank/internal/model"
	"github.com/jackc/pgx/v5"
)

// ArtifactStore keeps the metadata of snapshot files and error logs in the
// files table. The physical files live on local disk.
type ArtifactStore struct {
	db DB
}

func NewArtifactStore(db DB) *ArtifactStore {
	return &ArtifactStore{db: db}
}

// Create inspects the file at path and registers it. The recorded size is the
// file's actual length at the time of the call.
func (s *ArtifactStore) Create(ctx context.Context, path string) (*model.Artifact, error) {
	a, err := inspectArtifact(path)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO files (file_name, file_path, format, size, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING id, created_at, updated_at`,
		a.Name, a.StoragePath, a.Format, a.SizeBytes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert artifact %s: %w", a.Name, err)
	}
	return a, nil
}

func (s *ArtifactStore) GetByID(ctx context.Context, id int64) (*model.Artifact, error) {
	var a model.Artifact
	err := s.db.QueryRow(ctx,
		`SELECT id, file_name, file_path, format, size, created_at, updated_at
		 FROM files WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.StoragePath, &a.Format, &a.SizeBytes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get artifact %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %d: %w", id, err)
	}
	return &a, nil
}

// Open returns the artifact together with an open handle on its file. The
// caller closes the file.
func (s *ArtifactStore) Open(ctx context.Context, id int64) (*model.Artifact, *os.File, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(a.StoragePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("open artifact %d: %w", id, ErrArtifactNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact %d: %w", id, err)
	}
	return a, f, nil
}

// DeleteFile removes the artifact's physical file. A file that is already
// gone counts as success and reports removed=false.
func (s *ArtifactStore) DeleteFile(a *model.Artifact) (removed bool, err error) {
	if a == nil || a.StoragePath == "" {
		return false, nil
	}
	err = os.Remove(a.StoragePath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove artifact file %s: %w", a.StoragePath, err)
	}
	return true, nil
}

// DeleteRecord removes the metadata row only.
func (s *ArtifactStore) DeleteRecord(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artifact %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete artifact %d: %w", id, ErrNotFound)
	}
	return nil
}

func inspectArtifact(path string) (*model.Artifact, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrArtifactNotFound)
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat artifact %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrArtifactNotFound, path)
	}

	name := filepath.Base(path)
	return &model.Artifact{
		Name:        name,
		StoragePath: path,
		Format:      artifactFormat(name),
		SizeBytes:   info.Size(),
	}, nil
}

// artifactFormat derives the format from the extension, upper-cased. Names
// without an extension, or consisting only of one, have no format.
func artifactFormat(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.ToUpper(ext[1:])
}
