package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"

	"github.com/edvin/hrbank/internal/activity"
	"github.com/edvin/hrbank/internal/config"
	"github.com/edvin/hrbank/internal/core"
	"github.com/edvin/hrbank/internal/db"
	"github.com/edvin/hrbank/internal/logging"
	"github.com/edvin/hrbank/internal/metrics"
	"github.com/edvin/hrbank/internal/workflow"
)

const (
	taskQueue        = "hrbank-backups"
	backupScheduleID = "hrbank-backup-cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(config.ComponentWorker); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg, config.ComponentWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to register pool metrics")
	}

	storage := core.StorageConfig{BackupDir: cfg.BackupDir, ErrorLogDir: cfg.ErrorLogDir}
	if cfg.MirrorEnabled() {
		storage.Mirror = core.NewS3Mirror(core.S3MirrorConfig{
			Endpoint:  cfg.BackupS3Endpoint,
			Region:    cfg.BackupS3Region,
			Bucket:    cfg.BackupS3Bucket,
			Prefix:    cfg.BackupS3Prefix,
			AccessKey: cfg.BackupS3AccessKey,
			SecretKey: cfg.BackupS3SecretKey,
		})
	}
	services, err := core.NewServices(pool, storage, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise backup storage")
	}

	tlsConfig, err := cfg.TemporalTLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure temporal TLS")
	}
	dialOpts := temporalclient.Options{HostPort: cfg.TemporalAddress}
	if tlsConfig != nil {
		dialOpts.ConnectionOptions = temporalclient.ConnectionOptions{TLS: tlsConfig}
		logger.Info().Msg("temporal mTLS enabled")
	}
	tc, err := temporalclient.Dial(dialOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	w := worker.New(tc, taskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{&workflow.ActivityErrorInterceptor{}},
	})
	w.RegisterActivity(activity.NewBackup(services.Backup))
	w.RegisterWorkflow(workflow.ScheduledBackupWorkflow)

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr, pool.Ping)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", taskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	registerBackupSchedule(ctx, tc, cfg.BackupCron, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}

// registerBackupSchedule creates the cron schedule that starts system
// backups. An existing schedule is left untouched so re-deploys do not fail.
func registerBackupSchedule(ctx context.Context, tc temporalclient.Client, cron string, logger zerolog.Logger) {
	_, err := tc.ScheduleClient().Create(ctx, temporalclient.ScheduleOptions{
		ID: backupScheduleID,
		Spec: temporalclient.ScheduleSpec{
			CronExpressions: []string{cron},
		},
		Action: &temporalclient.ScheduleWorkflowAction{
			ID:        backupScheduleID,
			Workflow:  workflow.ScheduledBackupWorkflow,
			TaskQueue: taskQueue,
		},
	})
	switch {
	case err == nil:
		logger.Info().Str("id", backupScheduleID).Str("cron", cron).Msg("created backup schedule")
	case isAlreadyExists(err):
		logger.Info().Str("id", backupScheduleID).Msg("backup schedule already exists, skipping")
	default:
		logger.Fatal().Err(err).Str("id", backupScheduleID).Msg("failed to create backup schedule")
	}
}

func isAlreadyExists(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "AlreadyExists") || strings.Contains(msg, "already registered")
}
