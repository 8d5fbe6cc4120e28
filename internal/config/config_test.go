package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "dance" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"empty data file", func(c *Config) { c.Snapshot.DataFile = "" }},
		{"zero poll interval", func(c *Config) { c.Snapshot.PollIntervalSeconds = 0 }},
		{"negative history cap", func(c *Config) { c.Snapshot.MaxHistoryRuns = -1 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"telegram token without chat id", func(c *Config) { c.Notify.TelegramToken = "t" }},
		{"archive mode without bucket", func(c *Config) {
			c.Mode = "archive"
			c.S3.Bucket = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "ingest"

[snapshot]
data_file = "/var/lib/dealfinder/scraper_data.json"
max_history_runs = 50

[analytics]
min_profit = 25.0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ingest", cfg.Mode)
	assert.Equal(t, "/var/lib/dealfinder/scraper_data.json", cfg.Snapshot.DataFile)
	assert.Equal(t, 50, cfg.Snapshot.MaxHistoryRuns)
	assert.Equal(t, 25.0, cfg.Analytics.MinProfit)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30, cfg.Snapshot.PollIntervalSeconds)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DEALFINDER_MODE", "archive")
	t.Setenv("DEALFINDER_SERVER_PORT", "9090")
	t.Setenv("DEALFINDER_ANALYTICS_MIN_MARGIN", "7.5")
	t.Setenv("DEALFINDER_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "archive", cfg.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7.5, cfg.Analytics.MinMargin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}
