package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies DEALFINDER_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known DEALFINDER_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Snapshot ──
	setStr(&cfg.Snapshot.DataFile, "DEALFINDER_SNAPSHOT_DATA_FILE")
	setInt(&cfg.Snapshot.PollIntervalSeconds, "DEALFINDER_SNAPSHOT_POLL_INTERVAL_SECONDS")
	setInt(&cfg.Snapshot.MaxHistoryRuns, "DEALFINDER_SNAPSHOT_MAX_HISTORY_RUNS")

	// ── Analytics ──
	setFloat64(&cfg.Analytics.MinProfit, "DEALFINDER_ANALYTICS_MIN_PROFIT")
	setFloat64(&cfg.Analytics.MinMargin, "DEALFINDER_ANALYTICS_MIN_MARGIN")
	setFloat64(&cfg.Analytics.AlertMinProfit, "DEALFINDER_ANALYTICS_ALERT_MIN_PROFIT")
	setFloat64(&cfg.Analytics.AlertMinMargin, "DEALFINDER_ANALYTICS_ALERT_MIN_MARGIN")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "DEALFINDER_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "DEALFINDER_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "DEALFINDER_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "DEALFINDER_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "DEALFINDER_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "DEALFINDER_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "DEALFINDER_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "DEALFINDER_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "DEALFINDER_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "DEALFINDER_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "DEALFINDER_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "DEALFINDER_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "DEALFINDER_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "DEALFINDER_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "DEALFINDER_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "DEALFINDER_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.CacheTTLMinutes, "DEALFINDER_REDIS_CACHE_TTL_MINUTES")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "DEALFINDER_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "DEALFINDER_S3_REGION")
	setStr(&cfg.S3.Bucket, "DEALFINDER_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "DEALFINDER_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "DEALFINDER_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "DEALFINDER_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "DEALFINDER_S3_FORCE_PATH_STYLE")

	// ── Archive ──
	setInt(&cfg.Archive.RetentionDays, "DEALFINDER_ARCHIVE_RETENTION_DAYS")
	setInt(&cfg.Archive.IntervalHours, "DEALFINDER_ARCHIVE_INTERVAL_HOURS")

	// ── Server ──
	setInt(&cfg.Server.Port, "DEALFINDER_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "DEALFINDER_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "DEALFINDER_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerMinute, "DEALFINDER_SERVER_RATE_LIMIT_PER_MINUTE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "DEALFINDER_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "DEALFINDER_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "DEALFINDER_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "DEALFINDER_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "DEALFINDER_MODE")
	setStr(&cfg.LogLevel, "DEALFINDER_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
