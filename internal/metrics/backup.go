package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backupRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hrbank_backup_runs_total",
		Help: "Backup runs by terminal status.",
	}, []string{"status"})

	backupConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hrbank_backup_conflicts_total",
		Help: "Backup requests rejected because a run was in progress.",
	})

	backupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hrbank_backup_duration_seconds",
		Help:    "Wall time of backup runs from admission to terminal status.",
		Buckets: []float64{0.05, 0.25, 1, 5, 15, 60, 300, 900, 3600},
	}, []string{"status"})

	backupArtifactBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hrbank_backup_artifact_bytes",
		Help: "Size of the most recent completed snapshot.",
	})

	backupMirrorFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hrbank_backup_mirror_failures_total",
		Help: "Snapshots that could not be copied to off-site storage.",
	})
)

// ObserveBackupRun records a run that reached status after d.
func ObserveBackupRun(status string, d time.Duration) {
	backupRunsTotal.WithLabelValues(status).Inc()
	backupDuration.WithLabelValues(status).Observe(d.Seconds())
}

func ObserveBackupConflict() {
	backupConflictsTotal.Inc()
}

func SetBackupArtifactBytes(n int64) {
	backupArtifactBytes.Set(float64(n))
}

func ObserveMirrorFailure() {
	backupMirrorFailuresTotal.Inc()
}
