// Package game sequences fleet, contract, mining, and registration
// operations on top of the API client. It decides what to call and in
// which order; pacing and retries belong to the scheduler underneath.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/api"
)

// DefaultFaction is joined when registration does not name one.
const DefaultFaction = "COSMIC"

// ErrAlreadyRegistered is returned when a stored token exists for this
// installation and registration would orphan it.
var ErrAlreadyRegistered = errors.New("an agent token is already stored; delete it before registering again")

// callsignPrefixes seed generated agent symbols. Symbols must be 3 to 14
// characters from A-Z, 0-9 and underscore.
var callsignPrefixes = []string{
	"NOVA", "STAR", "VOID", "NEBULA", "SOLAR", "LUNAR", "COSMIC",
	"ASTRO", "ORBIT", "COMET", "METEOR", "SPACE", "GALAXY", "QUASAR",
}

const callsignChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenStore persists the credentials of registered agents.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveAgent(ctx context.Context, symbol, token, faction, headquarters string) error
}

// Registrar creates new agents and persists their tokens.
type Registrar struct {
	Client *api.Client
	Store  TokenStore
	Logger *zap.Logger

	// Rand is injectable for deterministic callsigns in tests.
	Rand *rand.Rand
}

// GenerateAgentSymbol builds a random valid callsign: a space-themed
// prefix, an underscore, and four random characters, never exceeding
// the 14-character limit.
func (r *Registrar) GenerateAgentSymbol() string {
	intn := rand.Intn
	if r.Rand != nil {
		intn = r.Rand.Intn
	}

	prefix := callsignPrefixes[intn(len(callsignPrefixes))]
	suffixLen := 14 - len(prefix) - 1
	if suffixLen > 4 {
		suffixLen = 4
	}

	out := make([]byte, 0, len(prefix)+1+suffixLen)
	out = append(out, prefix...)
	out = append(out, '_')
	for i := 0; i < suffixLen; i++ {
		out = append(out, callsignChars[intn(len(callsignChars))])
	}
	return string(out)
}

// Register creates a new agent and stores its token. An empty symbol
// gets a generated callsign; an empty faction joins DefaultFaction.
// Registration refuses to run when a token is already stored.
func (r *Registrar) Register(ctx context.Context, symbol, faction, email string) (*core.Registration, error) {
	if r.Store != nil {
		token, err := r.Store.LoadToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("check stored token: %w", err)
		}
		if token != "" {
			return nil, ErrAlreadyRegistered
		}
	}

	if symbol == "" {
		symbol = r.GenerateAgentSymbol()
	}
	if faction == "" {
		faction = DefaultFaction
	}

	registration, err := r.Client.Register(ctx, api.RegisterRequest{
		Symbol:  symbol,
		Faction: faction,
		Email:   email,
	})
	if err != nil {
		return nil, err
	}

	if r.Store != nil {
		err := r.Store.SaveAgent(ctx, registration.Agent.Symbol, registration.Token, faction, registration.Agent.Headquarters)
		if err != nil {
			// The agent exists remotely; losing the token now would strand
			// it, so surface the token in the error path via the caller.
			return registration, fmt.Errorf("agent %s registered but token could not be stored: %w", registration.Agent.Symbol, err)
		}
	}

	if r.Logger != nil {
		r.Logger.Info("registered agent",
			zap.String("symbol", registration.Agent.Symbol),
			zap.String("faction", faction),
			zap.String("headquarters", registration.Agent.Headquarters))
	}
	return registration, nil
}
