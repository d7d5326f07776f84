// Package store persists agent credentials, the request journal, and
// the survey cache in a libsql database (local file or remote Turso).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/voidrunner/voidrunner/internal/config"
)

const driverLibsql = "libsql"

// Store wraps the database connection.
type Store struct {
	DB     *sql.DB
	driver string
}

// Open connects to the store described by cfg and verifies the
// connection with a ping before returning.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	driver := strings.TrimSpace(cfg.Driver)
	if driver == "" {
		driver = driverLibsql
	}
	if driver != driverLibsql {
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	dsn, err := buildLibsqlDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverLibsql, dsn)
	if err != nil {
		return nil, fmt.Errorf("open libsql store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping libsql store: %w", err)
	}

	return &Store{DB: db, driver: driver}, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Driver returns the configured store driver.
func (s *Store) Driver() string {
	if s == nil {
		return ""
	}
	return s.driver
}

// buildLibsqlDSN resolves the connection string. A remote URL wins over
// the local path; local paths get their parent directory created and a
// file: scheme when they carry none.
func buildLibsqlDSN(cfg config.StoreConfig) (string, error) {
	if remote := strings.TrimSpace(cfg.URL); remote != "" {
		return withAuthToken(remote, cfg.AuthToken)
	}

	path := strings.TrimSpace(cfg.Path)
	switch {
	case path == "":
		return "", errors.New("store path or url is required")
	case path == ":memory:":
		return path, nil
	case strings.HasPrefix(path, "libsql:"):
		return path, nil
	case strings.HasPrefix(path, "file:"):
		local, err := localPathOf(path)
		if err != nil {
			return "", err
		}
		if err := mkStoreDir(local); err != nil {
			return "", err
		}
		return path, nil
	default:
		if err := mkStoreDir(path); err != nil {
			return "", err
		}
		return "file:" + filepath.Clean(path), nil
	}
}

// withAuthToken appends the Turso auth token as a query parameter
// unless the URL already carries one.
func withAuthToken(dsn, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return dsn, nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid store url: %w", err)
	}

	q := parsed.Query()
	if q.Get("authToken") == "" {
		q.Set("authToken", token)
		parsed.RawQuery = q.Encode()
	}
	return parsed.String(), nil
}

func localPathOf(dsn string) (string, error) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid store path: %w", err)
	}
	if parsed.Path != "" {
		return strings.TrimPrefix(parsed.Path, "//"), nil
	}
	return strings.TrimPrefix(parsed.Opaque, "//"), nil
}

func mkStoreDir(path string) error {
	if strings.TrimSpace(path) == "" || path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(filepath.Clean(path))
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}

	// #nosec G301 -- data directories use 0755 for multi-user access compatibility
	return os.MkdirAll(dir, 0755)
}
