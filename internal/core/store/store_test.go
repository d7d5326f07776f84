package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voidrunner/voidrunner/internal/config"
)

func TestBuildLibsqlDSN(t *testing.T) {
	t.Run("RemoteURLGetsAuthToken", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123", dsn)
	})

	t.Run("RemoteURLKeepsExistingQuery", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io?foo=bar",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123&foo=bar", dsn)
	})

	t.Run("RemoteURLDoesNotOverrideAuthToken", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io?authToken=original",
			AuthToken: "other",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=original", dsn)
	})

	t.Run("RemoteURLWinsOverPath", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:  "libsql://example.turso.io",
			Path: "./ignored.db",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io", dsn)
	})

	t.Run("FilePrefixedPathPassesThrough", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.StoreConfig{Path: "file:" + filepath.Join(dir, "voidrunner.db")}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, cfg.Path, dsn)
	})

	t.Run("PlainPathGetsFileScheme", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "voidrunner.db")
		cfg := config.StoreConfig{Path: path}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "file:"+filepath.Clean(path), dsn)
	})

	t.Run("LibsqlPathPassesThrough", func(t *testing.T) {
		cfg := config.StoreConfig{Path: "libsql://example.turso.io"}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io", dsn)
	})

	t.Run("MissingPathAndURLFails", func(t *testing.T) {
		_, err := buildLibsqlDSN(config.StoreConfig{})
		require.Error(t, err)
	})

	t.Run("MemoryPath", func(t *testing.T) {
		dsn, err := buildLibsqlDSN(config.StoreConfig{Path: ":memory:"})
		require.NoError(t, err)
		require.Equal(t, ":memory:", dsn)
	})
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(nil, config.StoreConfig{Driver: "postgres", Path: ":memory:"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported store driver")
}
