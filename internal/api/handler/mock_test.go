package handler

import (
	"context"
	"os"

	"github.com/edvin/hrbank/internal/core"
	"github.com/edvin/hrbank/internal/model"
	"github.com/stretchr/testify/mock"
)

type mockBackupService struct {
	mock.Mock
}

func (m *mockBackupService) PerformBackup(ctx context.Context, worker string) (*model.BackupRun, error) {
	args := m.Called(ctx, worker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BackupRun), args.Error(1)
}

func (m *mockBackupService) ListRuns(ctx context.Context, q core.RunQuery) (*core.RunPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.RunPage), args.Error(1)
}

func (m *mockBackupService) Latest(ctx context.Context, status model.BackupStatus) (*model.BackupRun, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BackupRun), args.Error(1)
}

func (m *mockBackupService) GetByID(ctx context.Context, id int64) (*model.BackupRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BackupRun), args.Error(1)
}

type mockArtifactService struct {
	mock.Mock
}

func (m *mockArtifactService) GetByID(ctx context.Context, id int64) (*model.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *mockArtifactService) Open(ctx context.Context, id int64) (*model.Artifact, *os.File, error) {
	args := m.Called(ctx, id)
	var a *model.Artifact
	if v := args.Get(0); v != nil {
		a = v.(*model.Artifact)
	}
	var f *os.File
	if v := args.Get(1); v != nil {
		f = v.(*os.File)
	}
	return a, f, args.Error(2)
}
