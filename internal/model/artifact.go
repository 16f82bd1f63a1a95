package model

// Artifact formats produced by the backup job.
const (
	ArtifactFormatCSV = "CSV"
	ArtifactFormatLog = "LOG"
)

// Artifact is a physical file tracked by a metadata row.
type Artifact struct {
	Base
	Name        string `json:"name"`
	StoragePath string `json:"storage_path"`
	Format      string `json:"format"`
	SizeBytes   int64  `json:"size_bytes"`
}
