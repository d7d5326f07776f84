package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS agents (
		symbol TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		faction TEXT,
		headquarters TEXT,
		registered_at INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS request_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task TEXT NOT NULL,
		status_code INTEGER,
		attempts INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_request_log_created ON request_log(created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_request_log_task ON request_log(task);`,
	`CREATE TABLE IF NOT EXISTS surveys (
		signature TEXT PRIMARY KEY,
		waypoint TEXT NOT NULL,
		payload TEXT NOT NULL,
		expires_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_surveys_expires ON surveys(expires_at);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
