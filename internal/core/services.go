package core

import "github.com/rs/zerolog"

// StorageConfig locates snapshot and error log files. Mirror is optional.
type StorageConfig struct {
	BackupDir   string
	ErrorLogDir string
	Mirror      ArtifactMirror
}

type Services struct {
	Backup    *BackupService
	Artifacts *ArtifactStore
	ChangeLog *ChangeLogService
}

func NewServices(db TxDB, storage StorageConfig, logger zerolog.Logger) (*Services, error) {
	exporter, err := NewSnapshotExporter(storage.BackupDir)
	if err != nil {
		return nil, err
	}
	errorLogs, err := NewErrorLogWriter(storage.ErrorLogDir)
	if err != nil {
		return nil, err
	}

	artifacts := NewArtifactStore(db)
	changeLog := NewChangeLogService(db)

	return &Services{
		Backup: NewBackupService(BackupDeps{
			Runs:      NewBackupRunStore(db),
			Changes:   NewChangeDetector(changeLog),
			Exporter:  exporter,
			Source:    NewEmployeeExportSource(db),
			Artifacts: artifacts,
			ErrorLogs: errorLogs,
			Mirror:    storage.Mirror,
		}, logger),
		Artifacts: artifacts,
		ChangeLog: changeLog,
	}, nil
}
