package model

import "time"

// SystemWorker is the worker identity recorded for scheduled runs.
const SystemWorker = "system"

// BackupRun is one execution attempt of the backup job.
type BackupRun struct {
	Base
	Worker     string       `json:"worker"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    *time.Time   `json:"ended_at,omitempty"`
	Status     BackupStatus `json:"status"`
	ArtifactID *int64       `json:"artifact_id,omitempty"`
}
