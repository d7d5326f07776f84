package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/voidrunner/voidrunner/internal/core/scheduler"
)

// RequestEntry is one row of the request journal.
type RequestEntry struct {
	ID         int64
	Task       string
	StatusCode int
	Attempts   int
	OK         bool
	Duration   time.Duration
	At         time.Time
}

// AppendRequest journals one completed operation. Wire it to the
// scheduler's OnResult hook.
func (s *Store) AppendRequest(ctx context.Context, record scheduler.Record) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	okValue := 0
	if record.OK {
		okValue = 1
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO request_log (task, status_code, attempts, ok, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.Task, record.StatusCode, record.Attempts, okValue,
		record.Duration.Milliseconds(), record.At.UTC().Unix())
	if err != nil {
		return fmt.Errorf("journal request: %w", err)
	}
	return nil
}

// ListRequests returns the newest journal entries, optionally filtered
// by task name.
func (s *Store) ListRequests(ctx context.Context, task string, limit int) ([]RequestEntry, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, task, status_code, attempts, ok, duration_ms, created_at
		FROM request_log
	`
	args := []any{}
	if task != "" {
		query += ` WHERE task = ?`
		args = append(args, task)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var entries []RequestEntry
	for rows.Next() {
		var (
			entry      RequestEntry
			statusCode sql.NullInt64
			okValue    int
			durationMS int64
			createdAt  int64
		)
		if err := rows.Scan(&entry.ID, &entry.Task, &statusCode, &entry.Attempts, &okValue, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("list requests: %w", err)
		}
		entry.StatusCode = int(statusCode.Int64)
		entry.OK = okValue == 1
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		entry.At = time.Unix(createdAt, 0).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	return entries, nil
}

// PruneRequests deletes journal entries older than cutoff.
func (s *Store) PruneRequests(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM request_log WHERE created_at < ?`, cutoff.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune requests: %w", err)
	}
	return result.RowsAffected()
}
