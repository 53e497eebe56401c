package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Queue.Capacity)
	assert.Equal(t, 1, cfg.Queue.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Queue.EnqueueWaitDuration())
	assert.Equal(t, 10*time.Minute, cfg.Queue.WatchdogTimeoutDuration())
	assert.InDelta(t, 1.0, cfg.Analysis.FinancialWeight+cfg.Analysis.SentimentWeight+cfg.Analysis.MarketWeight, 0.0001)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFilesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aira.toml")
	content := `
environment = "production"

[server]
port = 9090

[queue]
capacity = 7
enqueue_wait = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Queue.Capacity)
	assert.Equal(t, 250*time.Millisecond, cfg.Queue.EnqueueWaitDuration())

	// Untouched sections keep defaults
	assert.Equal(t, 1, cfg.Queue.Concurrency)
	assert.InDelta(t, 0.40, cfg.Analysis.FinancialWeight, 0.0001)
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/aira.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AIRA_SERVER_PORT", "7070")
	t.Setenv("AIRA_QUEUE_CAPACITY", "3")
	t.Setenv("AIRA_QUEUE_CONCURRENCY", "2")
	t.Setenv("AIRA_LOG_LEVEL", "debug")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Queue.Capacity)
	assert.Equal(t, 2, cfg.Queue.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"zero capacity", func(c *Config) { c.Queue.Capacity = 0 }},
		{"negative concurrency", func(c *Config) { c.Queue.Concurrency = -1 }},
		{"weights do not sum to one", func(c *Config) { c.Analysis.FinancialWeight = 0.9 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBadDurationFallsBack(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Queue.EnqueueWait = "not-a-duration"
	cfg.Queue.WatchdogTimeout = ""

	assert.Equal(t, 5*time.Second, cfg.Queue.EnqueueWaitDuration())
	assert.Equal(t, 10*time.Minute, cfg.Queue.WatchdogTimeoutDuration())
}
