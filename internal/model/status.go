package model

// BackupStatus is the lifecycle state of a backup run.
type BackupStatus string

// Backup run status constants.
const (
	BackupStatusInProgress BackupStatus = "IN_PROGRESS"
	BackupStatusCompleted  BackupStatus = "COMPLETED"
	BackupStatusFailed     BackupStatus = "FAILED"
	BackupStatusSkipped    BackupStatus = "SKIPPED"
)

// Valid reports whether s is one of the known statuses.
func (s BackupStatus) Valid() bool {
	switch s {
	case BackupStatusInProgress, BackupStatusCompleted, BackupStatusFailed, BackupStatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether a run in status s can no longer change.
func (s BackupStatus) Terminal() bool {
	return s.Valid() && s != BackupStatusInProgress
}
