package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete application configuration, merged from the
// config file, VOIDRUNNER_* environment variables, and flags.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Store     StoreConfig     `mapstructure:"store"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig points the client at the game API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SchedulerConfig seeds the request scheduler. BurstLimit and
// RatePerSecond are starting values; the server's real quota overwrites
// them from response headers as soon as traffic flows.
type SchedulerConfig struct {
	BurstLimit    int     `mapstructure:"burst_limit"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	MaxRetries    int     `mapstructure:"max_retries"`
}

// StoreConfig contains database configuration for libsql/Turso.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// ServerConfig contains status HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging configuration.
// Valid levels: trace, debug, info, warn, error.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultStorePath returns the default local database location under
// the user's data directory.
func DefaultStorePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "voidrunner.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "voidrunner", "voidrunner.db")
}
