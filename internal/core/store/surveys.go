package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/voidrunner/voidrunner/internal/core"
)

// SaveSurvey persists a survey for reuse across restarts.
func (s *Store) SaveSurvey(ctx context.Context, survey core.Survey) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if survey.Signature == "" {
		return errors.New("survey signature is required")
	}

	payload, err := json.Marshal(survey)
	if err != nil {
		return fmt.Errorf("encode survey: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO surveys (signature, waypoint, payload, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(signature) DO UPDATE SET
			waypoint = excluded.waypoint,
			payload = excluded.payload,
			expires_at = excluded.expires_at
	`, survey.Signature, survey.Symbol, string(payload), survey.Expiration.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store survey: %w", err)
	}
	return nil
}

// LoadSurveys returns all persisted surveys, expired ones included;
// callers filter by expiration.
func (s *Store) LoadSurveys(ctx context.Context) ([]core.Survey, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT payload FROM surveys ORDER BY expires_at`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var surveys []core.Survey
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("list surveys: %w", err)
		}
		var survey core.Survey
		if err := json.Unmarshal([]byte(payload), &survey); err != nil {
			return nil, fmt.Errorf("decode survey: %w", err)
		}
		surveys = append(surveys, survey)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}

	return surveys, nil
}

// DeleteExpiredSurveys drops surveys that expired at or before now.
func (s *Store) DeleteExpiredSurveys(ctx context.Context, now time.Time) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM surveys WHERE expires_at <= ?`, now.UTC().Unix()); err != nil {
		return fmt.Errorf("delete expired surveys: %w", err)
	}
	return nil
}
