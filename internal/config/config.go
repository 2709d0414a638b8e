// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat snake_case, matching the koanf tags below.
// - Provide New() to build a Config with defaults.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Storage drivers accepted by StorageDriver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the blob backend: memory, file, redis, sqlite.
	StorageDriver string `koanf:"storage_driver"`
	// StoragePath is the directory used by the file driver.
	StoragePath string `koanf:"storage_path"`
	// StoragePrefix is prepended to redis keys.
	StoragePrefix string `koanf:"storage_prefix"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// SQLiteDSN is passed to the sqlite driver as is.
	SQLiteDSN string `koanf:"sqlite_dsn"`

	// Insight settings. An empty API key makes every analysis fall back.
	InsightAPIKey        string  `koanf:"insight_api_key"`
	InsightEndpoint      string  `koanf:"insight_endpoint"`
	InsightModel         string  `koanf:"insight_model"`
	InsightTemperature   float64 `koanf:"insight_temperature"`
	InsightTopP          float64 `koanf:"insight_top_p"`
	InsightTimeoutMS     int     `koanf:"insight_timeout_ms"`
	InsightRatePerMinute int     `koanf:"insight_rate_per_minute"`

	// SimulationIntervalMS is the pause between simulated votes.
	SimulationIntervalMS int `koanf:"simulation_interval_ms"`
	// SimulationOnStart turns the simulator on at boot.
	SimulationOnStart bool `koanf:"simulation_on_start"`

	// Metric name prefix parts and an optional constant kiosk label.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`
	MetricsKiosk     string `koanf:"metrics_kiosk"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		StorageDriver:        DriverFile,
		StoragePath:          "data",
		StoragePrefix:        "ballot:",
		RedisAddr:            "localhost:6379",
		SQLiteDSN:            "file:ballot.db?_pragma=busy_timeout(5000)",
		InsightEndpoint:      "https://generativelanguage.googleapis.com",
		InsightModel:         "gemini-3-flash-preview",
		InsightTemperature:   0.7,
		InsightTopP:          0.8,
		InsightTimeoutMS:     30_000,
		InsightRatePerMinute: 6,
		SimulationIntervalMS: 1500,
		MetricsNamespace:     "ballot",
		MetricsSubsystem:     "election",
	}
}

// Validate checks the values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverFile:
		if strings.TrimSpace(c.StoragePath) == "" {
			return fmt.Errorf("%w: storage_path is required for the file driver", ErrInvalidConfig)
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.InsightTemperature < 0 || c.InsightTemperature > 2 {
		return fmt.Errorf("%w: insight_temperature must be within [0, 2]", ErrInvalidConfig)
	}
	if c.InsightTopP <= 0 || c.InsightTopP > 1 {
		return fmt.Errorf("%w: insight_top_p must be within (0, 1]", ErrInvalidConfig)
	}
	if c.InsightTimeoutMS <= 0 {
		return fmt.Errorf("%w: insight_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.SimulationIntervalMS <= 0 {
		return fmt.Errorf("%w: simulation_interval_ms must be positive", ErrInvalidConfig)
	}
	if !metricName(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	}
	if !metricName(c.MetricsSubsystem) {
		return fmt.Errorf("%w: metrics_subsystem %q is not a valid metric name", ErrInvalidConfig, c.MetricsSubsystem)
	}
	return nil
}

// metricName reports whether s fits [a-zA-Z_][a-zA-Z0-9_]*.
func metricName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// InsightTimeout is InsightTimeoutMS as a duration.
func (c *Config) InsightTimeout() time.Duration {
	return time.Duration(c.InsightTimeoutMS) * time.Millisecond
}

// SimulationInterval is SimulationIntervalMS as a duration.
func (c *Config) SimulationInterval() time.Duration {
	return time.Duration(c.SimulationIntervalMS) * time.Millisecond
}
