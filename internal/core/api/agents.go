package api

import (
	"context"
	"fmt"

	"github.com/voidrunner/voidrunner/internal/core"
)

// RegisterRequest is the agent registration payload. Email is optional
// and only needed for reserved callsigns.
type RegisterRequest struct {
	Symbol  string `json:"symbol"`
	Faction string `json:"faction"`
	Email   string `json:"email,omitempty"`
}

// Register creates a new agent and returns its token, starting contract
// and ship. Registration is unauthenticated.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*core.Registration, error) {
	resp, err := c.post(ctx, "/register", "register_agent", req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("register agent %s: %w", req.Symbol, resp.DecodeError())
	}

	var registration core.Registration
	if err := resp.DecodeData(&registration); err != nil {
		return nil, err
	}
	return &registration, nil
}

// GetAgent returns the authenticated agent's current status.
func (c *Client) GetAgent(ctx context.Context) (*core.Agent, error) {
	resp, err := c.get(ctx, "/my/agent", "get_agent")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("get agent: %w", resp.DecodeError())
	}

	var agent core.Agent
	if err := resp.DecodeData(&agent); err != nil {
		return nil, err
	}
	return &agent, nil
}
