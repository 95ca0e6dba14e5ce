package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	MediaDir        string
	MaxUploadBytes  int64
	LogLevel        slog.Level
	OTLPEndpoint    string
	ServiceName     string
	ShutdownTimeout time.Duration
	JanitorInterval time.Duration
	JanitorGrace    time.Duration
	JanitorWorkers  int
	BcryptCost      int
}

const (
	defaultRunAddress      = ":8080"
	defaultMediaDir        = "uploads"
	defaultMaxUploadBytes  = 50 << 20
	defaultServiceName     = "campusmarket"
	defaultShutdownTimeout = 10 * time.Second
	defaultJanitorInterval = time.Hour
	defaultJanitorGrace    = 24 * time.Hour
	defaultJanitorWorkers  = 4
	defaultBcryptCost      = 10
	defaultEnvFile         = ".env"
)

// Load parses configuration from flags, environment variables and an optional .env file.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	lookup, err := withEnvFile(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], lookup)
}

type envLookup func(string) (string, bool)

// withEnvFile layers the file named by ENV_FILE (default .env) under lookup.
// A missing default file is not an error.
func withEnvFile(lookup envLookup) (envLookup, error) {
	path, explicit := lookup("ENV_FILE")
	if path == "" {
		path, explicit = defaultEnvFile, false
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return lookup, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		MediaDir:        getString(lookup, "MEDIA_DIR", defaultMediaDir),
		MaxUploadBytes:  int64(getInt(lookup, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		OTLPEndpoint:    getString(lookup, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:     getString(lookup, "SERVICE_NAME", defaultServiceName),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		JanitorInterval: getDuration(lookup, "JANITOR_INTERVAL", defaultJanitorInterval),
		JanitorGrace:    getDuration(lookup, "JANITOR_GRACE", defaultJanitorGrace),
		JanitorWorkers:  getInt(lookup, "JANITOR_WORKERS", defaultJanitorWorkers),
		BcryptCost:      getInt(lookup, "BCRYPT_COST", defaultBcryptCost),
	}
	logLevel := getString(lookup, "LOG_LEVEL", "info")

	flags := flag.NewFlagSet("campusmarket", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		janitorIntervalStr = cfg.JanitorInterval.String()
		janitorGraceStr    = cfg.JanitorGrace.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.MediaDir, "media-dir", cfg.MediaDir, "Directory for uploaded listing media")
	flags.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Maximum size of one uploaded file in bytes")
	flags.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", cfg.OTLPEndpoint, "OTLP HTTP collector endpoint")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&janitorIntervalStr, "janitor-interval", janitorIntervalStr, "Interval between media janitor runs")
	flags.StringVar(&janitorGraceStr, "janitor-grace", janitorGraceStr, "Minimum age of a file before the janitor may remove it")
	flags.IntVar(&cfg.JanitorWorkers, "janitor-workers", cfg.JanitorWorkers, "Number of concurrent janitor workers")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.JanitorInterval, err = time.ParseDuration(janitorIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid janitor interval: %w", err)
	}

	if cfg.JanitorGrace, err = time.ParseDuration(janitorGraceStr); err != nil {
		return nil, fmt.Errorf("invalid janitor grace: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(logLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if uriFile, ok := lookup("DATABASE_URI_FILE"); ok && uriFile != "" {
		content, err := os.ReadFile(uriFile)
		if err != nil {
			return nil, fmt.Errorf("read database uri file: %w", err)
		}
		cfg.DatabaseURI = strings.TrimSpace(string(content))
	}

	if cfg.JanitorWorkers <= 0 {
		cfg.JanitorWorkers = defaultJanitorWorkers
	}

	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = defaultJanitorInterval
	}

	if cfg.JanitorGrace <= 0 {
		cfg.JanitorGrace = defaultJanitorGrace
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = defaultBcryptCost
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.MediaDir == "" {
		return nil, fmt.Errorf("media directory must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
