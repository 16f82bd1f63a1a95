package platform

import (
	"fmt"
	"time"
)

// BackupFileName names a snapshot file created at t.
// Example: backup_1760798400123_1f0c9a2b.csv
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("backup_%d_%s.csv", t.UnixMilli(), ShortID())
}

// ErrorLogFileName names an error log written at t.
// Example: error_log_20251018_143000_1f0c9a2b.log
func ErrorLogFileName(t time.Time) string {
	return fmt.Sprintf("error_log_%s_%s.log", t.Format("20060102_150405"), ShortID())
}
