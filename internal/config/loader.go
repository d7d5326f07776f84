// Package config provides centralized configuration management.
// Values merge in three layers: built-in defaults, an optional YAML
// config file, and VOIDRUNNER_* environment variables.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/voidrunner/voidrunner/internal/core/api"
	"github.com/voidrunner/voidrunner/internal/core/scheduler"
)

// EnvPrefix namespaces environment overrides (VOIDRUNNER_API_TOKEN and
// friends).
const EnvPrefix = "VOIDRUNNER"

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults installs the built-in defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", api.DefaultBaseURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("scheduler.burst_limit", scheduler.DefaultBurstLimit)
	v.SetDefault("scheduler.rate_per_second", scheduler.DefaultRatePerSecond)
	v.SetDefault("scheduler.max_retries", scheduler.DefaultMaxRetries)

	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
}

// Load decodes the merged viper settings into a typed Config and
// validates it. The result becomes the process-wide config snapshot.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Scheduler.BurstLimit < 1 {
		return fmt.Errorf("scheduler.burst_limit must be at least 1, got %d", cfg.Scheduler.BurstLimit)
	}
	if cfg.Scheduler.RatePerSecond <= 0 {
		return fmt.Errorf("scheduler.rate_per_second must be positive, got %v", cfg.Scheduler.RatePerSecond)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if strings.TrimSpace(cfg.Store.URL) == "" && strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = DefaultStorePath()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging.level: %s", cfg.Logging.Level)
	}
	return nil
}

// GetConfig returns the current application configuration.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}
