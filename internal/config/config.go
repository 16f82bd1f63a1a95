package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Binaries that call Validate.
const (
	ComponentAPI    = "hrbank-api"
	ComponentWorker = "worker"
)

type Config struct {
	ServiceName      string        `yaml:"service_name"`
	DatabaseURL      string        `yaml:"database_url"`
	HTTPListenAddr   string        `yaml:"http_listen_addr"`
	HTTPWriteTimeout time.Duration `yaml:"http_write_timeout"`
	MetricsAddr      string        `yaml:"metrics_addr"`
	LogLevel         string        `yaml:"log_level"`

	// BackupDir holds CSV snapshots, ErrorLogDir the failure reports.
	BackupDir   string `yaml:"backup_dir"`
	ErrorLogDir string `yaml:"error_log_dir"`

	// Off-site copy of completed snapshots. Disabled when BackupS3Bucket is empty.
	BackupS3Bucket    string `yaml:"backup_s3_bucket"`
	BackupS3Prefix    string `yaml:"backup_s3_prefix"`
	BackupS3Endpoint  string `yaml:"backup_s3_endpoint"`
	BackupS3Region    string `yaml:"backup_s3_region"`
	BackupS3AccessKey string `yaml:"backup_s3_access_key"`
	BackupS3SecretKey string `yaml:"backup_s3_secret_key"`

	TemporalAddress       string `yaml:"temporal_address"`
	TemporalTLSCert       string `yaml:"temporal_tls_cert"`
	TemporalTLSKey        string `yaml:"temporal_tls_key"`
	TemporalTLSCACert     string `yaml:"temporal_tls_ca_cert"`
	TemporalTLSServerName string `yaml:"temporal_tls_server_name"`
	// BackupCron is the schedule of the system-triggered backup.
	BackupCron string `yaml:"backup_cron"`
}

func defaults() *Config {
	return &Config{
		ServiceName:      "hrbank",
		HTTPListenAddr:   ":8080",
		HTTPWriteTimeout: 10 * time.Minute,
		MetricsAddr:      ":9090",
		LogLevel:         "info",
		BackupDir:        "./storage/backups",
		ErrorLogDir:      "./storage/logs",
		BackupS3Prefix:   "snapshots",
		BackupS3Region:   "us-east-1",
		TemporalAddress:  "localhost:7233",
		BackupCron:       "0 * * * *",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// HRBANK_CONFIG if set, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("HRBANK_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.HTTPListenAddr = getEnv("HTTP_LISTEN_ADDR", cfg.HTTPListenAddr)
	cfg.MetricsAddr = getEnv("METRICS_ADDR", cfg.MetricsAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.BackupDir = getEnv("BACKUP_DIR", cfg.BackupDir)
	cfg.ErrorLogDir = getEnv("ERROR_LOG_DIR", cfg.ErrorLogDir)
	cfg.BackupS3Bucket = getEnv("BACKUP_S3_BUCKET", cfg.BackupS3Bucket)
	cfg.BackupS3Prefix = getEnv("BACKUP_S3_PREFIX", cfg.BackupS3Prefix)
	cfg.BackupS3Endpoint = getEnv("BACKUP_S3_ENDPOINT", cfg.BackupS3Endpoint)
	cfg.BackupS3Region = getEnv("BACKUP_S3_REGION", cfg.BackupS3Region)
	cfg.BackupS3AccessKey = getEnv("BACKUP_S3_ACCESS_KEY", cfg.BackupS3AccessKey)
	cfg.BackupS3SecretKey = getEnv("BACKUP_S3_SECRET_KEY", cfg.BackupS3SecretKey)
	cfg.TemporalAddress = getEnv("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalTLSCert = getEnv("TEMPORAL_TLS_CERT", cfg.TemporalTLSCert)
	cfg.TemporalTLSKey = getEnv("TEMPORAL_TLS_KEY", cfg.TemporalTLSKey)
	cfg.TemporalTLSCACert = getEnv("TEMPORAL_TLS_CA_CERT", cfg.TemporalTLSCACert)
	cfg.TemporalTLSServerName = getEnv("TEMPORAL_TLS_SERVER_NAME", cfg.TemporalTLSServerName)
	cfg.BackupCron = getEnv("BACKUP_CRON", cfg.BackupCron)

	if v := os.Getenv("HTTP_WRITE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
		}
		cfg.HTTPWriteTimeout = d
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the settings required by component are present.
func (c *Config) Validate(component string) error {
	var errs []error
	require := func(value, key string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	require(c.DatabaseURL, "DATABASE_URL")
	require(c.BackupDir, "BACKUP_DIR")
	require(c.ErrorLogDir, "ERROR_LOG_DIR")

	switch component {
	case ComponentAPI:
		require(c.HTTPListenAddr, "HTTP_LISTEN_ADDR")
		if c.HTTPWriteTimeout <= 0 {
			errs = append(errs, errors.New("HTTP_WRITE_TIMEOUT must be positive"))
		}
	case ComponentWorker:
		require(c.TemporalAddress, "TEMPORAL_ADDRESS")
		require(c.BackupCron, "BACKUP_CRON")
	default:
		return fmt.Errorf("unknown component %q", component)
	}

	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		errs = append(errs, errors.New("TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must be set together"))
	}
	if c.BackupS3Bucket != "" && (c.BackupS3AccessKey == "") != (c.BackupS3SecretKey == "") {
		errs = append(errs, errors.New("BACKUP_S3_ACCESS_KEY and BACKUP_S3_SECRET_KEY must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid %s config: %w", component, errors.Join(errs...))
	}
	return nil
}

// MirrorEnabled reports whether completed snapshots are copied to S3.
func (c *Config) MirrorEnabled() bool {
	return c.BackupS3Bucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
