// Package config loads the service configuration.
//
// Values start from Default, are overlaid by an optional YAML file (given
// by --config or TELEMETRY_CONFIG) and finally by environment variables.
// The result is checked by Validate before it is returned.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const EnvConfigPath = "TELEMETRY_CONFIG"

// Experiment bucket store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Scroll     ScrollConfig     `yaml:"scroll"`
	Page       PageConfig       `yaml:"page"`
	Sessions   SessionsConfig   `yaml:"sessions"`
	Feedback   FeedbackConfig   `yaml:"feedback"`
	Experiment ExperimentConfig `yaml:"experiment"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	ClientLog  ClientLogConfig  `yaml:"client_log"`
	Sentry     SentryConfig     `yaml:"sentry"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// File enables a rotated log file next to stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ScrollConfig struct {
	Window time.Duration `yaml:"window"`

	// LatestOrigin attributes a window to its last event instead of the
	// event that opened it.
	LatestOrigin bool `yaml:"latest_origin"`
}

type PageConfig struct {
	DeveloperMode bool `yaml:"developer_mode"`
}

type SessionsConfig struct {
	Size int `yaml:"size"`
}

type FeedbackConfig struct {
	EventStoreEnabled bool          `yaml:"eventstore_enabled"`
	EventStoreURL     string        `yaml:"eventstore_url"`
	Journal           bool          `yaml:"journal"`
	Timeout           time.Duration `yaml:"timeout"`
}

type ExperimentConfig struct {
	Store      string `yaml:"store"`
	SQLitePath string `yaml:"sqlite_path"`
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ClientLogConfig struct {
	// BaseURL of the server exposing /api/v3/general/log_client. Empty
	// disables forwarding.
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SentryConfig struct {
	DSN              string  `yaml:"dsn"`
	Environment      string  `yaml:"environment"`
	TracesSampleRate float64 `yaml:"traces_sample_rate"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Scroll: ScrollConfig{
			Window: time.Second,
		},
		Sessions: SessionsConfig{
			Size: 10000,
		},
		Feedback: FeedbackConfig{
			EventStoreEnabled: true,
			EventStoreURL:     "http://127.0.0.1:2113/streams/mattermost-clicks",
			Timeout:           5 * time.Second,
		},
		Experiment: ExperimentConfig{
			Store:      StoreSQLite,
			SQLitePath: "buckets.db",
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		ClientLog: ClientLogConfig{
			Timeout: 5 * time.Second,
		},
		Sentry: SentryConfig{
			Environment: "development",
		},
	}
}

// Load builds the configuration. An empty path falls back to
// TELEMETRY_CONFIG; with neither set only defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.HTTP.Addr = getenvDefault("HTTP_ADDR", c.HTTP.Addr)
	c.Log.Level = getenvDefault("LOG_LEVEL", c.Log.Level)
	c.Log.File = getenvDefault("LOG_FILE", c.Log.File)
	c.Scroll.Window = getenvDuration("SCROLL_WINDOW", c.Scroll.Window)
	c.Scroll.LatestOrigin = getenvBoolDefault("SCROLL_LATEST_ORIGIN", c.Scroll.LatestOrigin)
	c.Page.DeveloperMode = getenvBoolDefault("DEVELOPER_MODE", c.Page.DeveloperMode)
	c.Sessions.Size = getenvIntDefault("SESSIONS_SIZE", c.Sessions.Size)
	c.Feedback.EventStoreEnabled = getenvBoolDefault("EVENTSTORE_ENABLED", c.Feedback.EventStoreEnabled)
	c.Feedback.EventStoreURL = getenvDefault("EVENTSTORE_URL", c.Feedback.EventStoreURL)
	c.Feedback.Journal = getenvBoolDefault("FEEDBACK_JOURNAL", c.Feedback.Journal)
	c.Feedback.Timeout = getenvDuration("FEEDBACK_TIMEOUT", c.Feedback.Timeout)
	c.Experiment.Store = getenvDefault("EXPERIMENT_STORE", c.Experiment.Store)
	c.Experiment.SQLitePath = getenvDefault("EXPERIMENT_SQLITE_PATH", c.Experiment.SQLitePath)
	c.Postgres.DSN = getenvDefault("POSTGRES_DSN", c.Postgres.DSN)
	c.Redis.Addr = getenvDefault("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenvDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getenvIntDefault("REDIS_DB", c.Redis.DB)
	c.ClientLog.BaseURL = getenvDefault("CLIENT_LOG_URL", c.ClientLog.BaseURL)
	c.Sentry.DSN = getenvDefault("SENTRY_DSN", c.Sentry.DSN)
	c.Sentry.Environment = getenvDefault("SENTRY_ENVIRONMENT", c.Sentry.Environment)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levels))
	}

	if c.Scroll.Window <= 0 {
		errs = append(errs, errors.New("scroll.window must be positive"))
	}

	if c.Sessions.Size <= 0 {
		errs = append(errs, errors.New("sessions.size must be positive"))
	}

	stores := []string{StoreMemory, StoreSQLite, StorePostgres, StoreRedis}
	switch {
	case !slices.Contains(stores, c.Experiment.Store):
		errs = append(errs, fmt.Errorf("experiment.store must be one of: %v", stores))
	case c.Experiment.Store == StoreSQLite && c.Experiment.SQLitePath == "":
		errs = append(errs, errors.New("experiment.sqlite_path is required for the sqlite store"))
	case c.Experiment.Store == StorePostgres && c.Postgres.DSN == "":
		errs = append(errs, errors.New("postgres.dsn is required for the postgres store"))
	case c.Experiment.Store == StoreRedis && c.Redis.Addr == "":
		errs = append(errs, errors.New("redis.addr is required for the redis store"))
	}

	if c.Feedback.Journal && c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres.dsn is required for the feedback journal"))
	}

	if c.Feedback.EventStoreEnabled && c.Feedback.EventStoreURL == "" {
		errs = append(errs, errors.New("feedback.eventstore_url is required when the event store is enabled"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// NeedsPostgres reports whether any component uses the database.
func (c *Config) NeedsPostgres() bool {
	return c.Feedback.Journal || c.Experiment.Store == StorePostgres
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
