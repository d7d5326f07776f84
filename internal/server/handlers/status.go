package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/voidrunner/voidrunner/internal/core/scheduler"
	"github.com/voidrunner/voidrunner/internal/core/store"
	apperrors "github.com/voidrunner/voidrunner/internal/errors"
)

// AgentProvider returns the most recently registered agent, if any.
type AgentProvider interface {
	CurrentAgent(ctx context.Context) (*store.AgentRecord, error)
}

// StatsProvider reports scheduler counters and rate limit state.
type StatsProvider interface {
	Stats() scheduler.Stats
}

// StatusResponse is the payload served by the status endpoint. The
// agent section is read from local storage so the endpoint never
// spends request budget against the remote API.
type StatusResponse struct {
	Timestamp time.Time       `json:"timestamp"`
	Agent     *StatusAgent    `json:"agent,omitempty"`
	Scheduler scheduler.Stats `json:"scheduler"`
}

// StatusAgent is the subset of the stored agent record safe to expose.
// The access token is deliberately omitted.
type StatusAgent struct {
	Symbol       string    `json:"symbol"`
	Faction      string    `json:"faction"`
	Headquarters string    `json:"headquarters"`
	RegisteredAt time.Time `json:"registered_at"`
}

// StatusHandler serves a snapshot of the automation state.
type StatusHandler struct {
	Agents AgentProvider
	Stats  StatsProvider
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		Timestamp: time.Now().UTC(),
	}

	if h.Stats != nil {
		response.Scheduler = h.Stats.Stats()
	}

	if h.Agents != nil {
		record, err := h.Agents.CurrentAgent(r.Context())
		if err != nil {
			respondWithError(w, r, apperrors.NewDatabaseError("failed to load agent record"))
			return
		}
		if record != nil {
			response.Agent = &StatusAgent{
				Symbol:       record.Symbol,
				Faction:      record.Faction,
				Headquarters: record.Headquarters,
				RegisteredAt: record.RegisteredAt,
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
