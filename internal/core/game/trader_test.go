package game

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gameServer fakes the handful of endpoints a sweep touches.
type gameServer struct {
	mu       sync.Mutex
	accepted []string
}

func (g *gameServer) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/my/agent", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"symbol":"VOID_X","credits":5000,"headquarters":"X1-AA1-A1"}}`))
	})
	mux.HandleFunc("/my/ships", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"symbol":"VOID_X-1","nav":{"systemSymbol":"X1-AA1","waypointSymbol":"X1-AA1-A1","status":"DOCKED"},
			 "frame":{"symbol":"FRAME_MINER"},"cargo":{"capacity":30,"units":0}}
		]}`))
	})
	mux.HandleFunc("/my/contracts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"c-open","accepted":false,"fulfilled":false,"terms":{"deliver":[{"tradeSymbol":"IRON_ORE","destinationSymbol":"X1-AA1-A1","unitsRequired":100,"unitsFulfilled":0}]}},
			{"id":"c-done","accepted":true,"fulfilled":true}
		]}`))
	})
	mux.HandleFunc("/my/contracts/c-open/accept", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.accepted = append(g.accepted, "c-open")
		g.mu.Unlock()
		_, _ = w.Write([]byte(`{"data":{"agent":{"symbol":"VOID_X"},"contract":{"id":"c-open","accepted":true}}}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func TestSweepAcceptsOpenContracts(t *testing.T) {
	srv := &gameServer{}
	client := newGameClient(t, srv.handler(t))

	trader := NewTrader(client, zap.NewNop())
	require.NoError(t, trader.Initialize(context.Background()))
	require.Equal(t, "VOID_X", trader.Agent().Symbol)

	require.NoError(t, trader.Sweep(context.Background(), &Plan{Contracts: true}))

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.Equal(t, []string{"c-open"}, srv.accepted)
}

func TestRunHonorsIterationBudget(t *testing.T) {
	srv := &gameServer{}
	client := newGameClient(t, srv.handler(t))

	trader := NewTrader(client, zap.NewNop())
	var sleeps []time.Duration
	trader.Sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	require.NoError(t, trader.Initialize(context.Background()))

	require.NoError(t, trader.Run(context.Background(), &Plan{Contracts: true, Iterations: 3, Interval: time.Minute}))

	// No sleep after the final iteration.
	require.Equal(t, []time.Duration{time.Minute, time.Minute}, sleeps)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	srv := &gameServer{}
	client := newGameClient(t, srv.handler(t))

	trader := NewTrader(client, zap.NewNop())
	require.NoError(t, trader.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	trader.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := trader.Run(ctx, &Plan{Contracts: true})
	require.ErrorIs(t, err, context.Canceled)
}
