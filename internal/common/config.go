package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Queue       QueueConfig    `toml:"queue"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Logging     LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// QueueConfig controls the work queue and the worker pool
type QueueConfig struct {
	Capacity        int    `toml:"capacity"`         // Bounded queue capacity
	EnqueueWait     string `toml:"enqueue_wait"`     // e.g. "5s" - bounded wait before the queue reports full
	Concurrency     int    `toml:"concurrency"`      // Number of worker goroutines (default 1)
	WatchdogTimeout string `toml:"watchdog_timeout"` // Max time a job may stay running before the watchdog fails it
}

// EnqueueWaitDuration parses the enqueue wait, falling back to 5s
func (q QueueConfig) EnqueueWaitDuration() time.Duration {
	if d, err := time.ParseDuration(q.EnqueueWait); err == nil && d > 0 {
		return d
	}
	return 5 * time.Second
}

// WatchdogTimeoutDuration parses the watchdog timeout, falling back to 10m
func (q QueueConfig) WatchdogTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(q.WatchdogTimeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Minute
}

// AnalysisConfig holds the composite scoring weights. Weights must sum to 1.0.
type AnalysisConfig struct {
	FinancialWeight float64 `toml:"financial_weight"`
	SentimentWeight float64 `toml:"sentiment_weight"`
	MarketWeight    float64 `toml:"market_weight"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig returns the built-in defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Queue: QueueConfig{
			Capacity:        100,
			EnqueueWait:     "5s",
			Concurrency:     1,
			WatchdogTimeout: "10m",
		},
		Analysis: AnalysisConfig{
			FinancialWeight: 0.40,
			SentimentWeight: 0.30,
			MarketWeight:    0.30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies AIRA_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("AIRA_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("AIRA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("AIRA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if capacity := os.Getenv("AIRA_QUEUE_CAPACITY"); capacity != "" {
		if c, err := strconv.Atoi(capacity); err == nil && c > 0 {
			config.Queue.Capacity = c
		}
	}
	if wait := os.Getenv("AIRA_QUEUE_ENQUEUE_WAIT"); wait != "" {
		if _, err := time.ParseDuration(wait); err == nil {
			config.Queue.EnqueueWait = wait
		}
	}
	if concurrency := os.Getenv("AIRA_QUEUE_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil && c > 0 {
			config.Queue.Concurrency = c
		}
	}
	if watchdog := os.Getenv("AIRA_QUEUE_WATCHDOG_TIMEOUT"); watchdog != "" {
		if _, err := time.ParseDuration(watchdog); err == nil {
			config.Queue.WatchdogTimeout = watchdog
		}
	}
	if level := os.Getenv("AIRA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Queue.Capacity <= 0 {
		return fmt.Errorf("queue capacity must be positive, got %d", c.Queue.Capacity)
	}
	if c.Queue.Concurrency <= 0 {
		return fmt.Errorf("queue concurrency must be positive, got %d", c.Queue.Concurrency)
	}

	sum := c.Analysis.FinancialWeight + c.Analysis.SentimentWeight + c.Analysis.MarketWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("analysis weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
