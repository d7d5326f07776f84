package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	require.Equal(t, "https://api.spacetraders.io/v2", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, 30, cfg.Scheduler.BurstLimit)
	require.InDelta(t, 2.0, cfg.Scheduler.RatePerSecond, 1e-9)
	require.Equal(t, 3, cfg.Scheduler.MaxRetries)
	require.Equal(t, "libsql", cfg.Store.Driver)
	require.NotEmpty(t, cfg.Store.Path)
	require.Equal(t, "localhost", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	v := newViper(t)
	v.Set("api.token", "tok-123")
	v.Set("api.timeout", "5s")
	v.Set("scheduler.rate_per_second", 4.5)
	v.Set("server.port", 9090)

	cfg, err := Load(v)
	require.NoError(t, err)

	require.Equal(t, "tok-123", cfg.API.Token)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.InDelta(t, 4.5, cfg.Scheduler.RatePerSecond, 1e-9)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]struct {
		key   string
		value any
	}{
		"zero burst":    {"scheduler.burst_limit", 0},
		"negative rate": {"scheduler.rate_per_second", -1.0},
		"bad port":      {"server.port", 70000},
		"bad level":     {"logging.level", "loud"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v := newViper(t)
			v.Set(tc.key, tc.value)
			_, err := Load(v)
			require.Error(t, err)
		})
	}
}

func TestLoadStoresSnapshot(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)
	require.Same(t, cfg, GetConfig())
}
