package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AgentRecord is one stored agent credential row.
type AgentRecord struct {
	Symbol       string
	Token        string
	Faction      string
	Headquarters string
	RegisteredAt time.Time
}

// SaveAgent stores or replaces an agent credential row.
func (s *Store) SaveAgent(ctx context.Context, symbol, token, faction, headquarters string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return errors.New("agent symbol is required")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("agent token is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO agents (symbol, token, faction, headquarters, registered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			token = excluded.token,
			faction = excluded.faction,
			headquarters = excluded.headquarters
	`, symbol, token, faction, headquarters, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("store agent: %w", err)
	}
	return nil
}

// LoadToken returns the most recently registered agent's token, or an
// empty string when no agent is stored.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	record, err := s.CurrentAgent(ctx)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}

// CurrentAgent returns the most recently registered agent, or nil when
// none exists.
func (s *Store) CurrentAgent(ctx context.Context) (*AgentRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT symbol, token, faction, headquarters, registered_at
		FROM agents
		ORDER BY registered_at DESC
		LIMIT 1
	`)

	var (
		record       AgentRecord
		faction      sql.NullString
		headquarters sql.NullString
		registeredAt int64
	)
	if err := row.Scan(&record.Symbol, &record.Token, &faction, &headquarters, &registeredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch agent: %w", err)
	}

	record.Faction = faction.String
	record.Headquarters = headquarters.String
	record.RegisteredAt = time.Unix(registeredAt, 0).UTC()
	return &record, nil
}

// DeleteAgent removes a stored agent by symbol.
func (s *Store) DeleteAgent(ctx context.Context, symbol string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM agents WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	return nil
}
