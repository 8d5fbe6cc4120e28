// Package config defines the top-level configuration for the deal finder
// dashboard backend and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by DEALFINDER_* environment
// variables.
type Config struct {
	Snapshot  SnapshotConfig  `toml:"snapshot"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	Archive   ArchiveConfig   `toml:"archive"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// SnapshotConfig locates the scraper data file and controls polling.
type SnapshotConfig struct {
	// DataFile is the path to scraper_data.json written by the scraper.
	DataFile string `toml:"data_file"`
	// PollIntervalSeconds is how often the file is re-read for changes.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	// MaxHistoryRuns caps the in-memory run history; oldest runs drop first.
	MaxHistoryRuns int `toml:"max_history_runs"`
}

// AnalyticsConfig holds default thresholds and alerting parameters.
type AnalyticsConfig struct {
	// MinProfit and MinMargin are the default opportunity filter bounds
	// applied when a request does not specify its own.
	MinProfit float64 `toml:"min_profit"`
	MinMargin float64 `toml:"min_margin"`

	// AlertMinProfit / AlertMinMargin gate the best-opportunity notification
	// raised after each refresh.
	AlertMinProfit float64 `toml:"alert_min_profit"`
	AlertMinMargin float64 `toml:"alert_min_margin"`
}

// PostgresConfig holds PostgreSQL connection parameters for the run archive.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
	// CacheTTLMinutes bounds how long the cached snapshot document lives.
	CacheTTLMinutes int `toml:"cache_ttl_minutes"`
}

// S3Config holds S3-compatible object storage parameters for cold-storage
// archival of old runs.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ArchiveConfig controls cold-storage archival of old runs.
type ArchiveConfig struct {
	// RetentionDays is how long runs stay in Postgres before archival.
	RetentionDays int `toml:"retention_days"`
	// IntervalHours is how often the archival pass runs in "full" mode.
	IntervalHours int `toml:"interval_hours"`
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	// APIKey enables authentication when non-empty.
	APIKey string `toml:"api_key"`
	// RateLimitPerMinute caps requests per client IP; zero disables limiting.
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
}

// NotifyConfig holds notification channel credentials and the event filter.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns the built-in configuration, matching the scraper's own
// constants where one exists (e.g. the 20-run history cap).
func Defaults() Config {
	return Config{
		Snapshot: SnapshotConfig{
			DataFile:            "scraper_data.json",
			PollIntervalSeconds: 30,
			MaxHistoryRuns:      20,
		},
		Analytics: AnalyticsConfig{
			MinProfit:      10,
			MinMargin:      5,
			AlertMinProfit: 100,
			AlertMinMargin: 25,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "dealfinder",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			DB:              0,
			PoolSize:        20,
			MaxRetries:      3,
			CacheTTLMinutes: 10,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "dealfinder-archive",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Archive: ArchiveConfig{
			RetentionDays: 30,
			IntervalHours: 24,
		},
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"serve":   true,
	"ingest":  true,
	"archive": true,
	"full":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for inconsistencies and returns an error
// listing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, ingest, archive, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Snapshot.DataFile == "" {
		errs = append(errs, "snapshot: data_file must not be empty")
	}
	if c.Snapshot.PollIntervalSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("snapshot: poll_interval_seconds must be positive, got %d", c.Snapshot.PollIntervalSeconds))
	}
	if c.Snapshot.MaxHistoryRuns < 0 {
		errs = append(errs, fmt.Sprintf("snapshot: max_history_runs must not be negative, got %d", c.Snapshot.MaxHistoryRuns))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Sprintf("server: rate_limit_per_minute must not be negative, got %d", c.Server.RateLimitPerMinute))
	}

	mode := strings.ToLower(c.Mode)
	needsArchive := mode == "archive" || mode == "full"
	if needsArchive {
		if c.Archive.RetentionDays <= 0 {
			errs = append(errs, fmt.Sprintf("archive: retention_days must be positive, got %d", c.Archive.RetentionDays))
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty for mode "+c.Mode)
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty for mode "+c.Mode)
		}
	}

	// Telegram credentials must be set together or not at all.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
