package game

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core/api"
	"github.com/voidrunner/voidrunner/internal/core/scheduler"
)

var callsignPattern = regexp.MustCompile(`^[A-Z0-9_]{3,14}$`)

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

type fakeTokenStore struct {
	token     string
	loadErr   error
	saved     bool
	savedArgs [4]string
}

func (s *fakeTokenStore) LoadToken(context.Context) (string, error) {
	return s.token, s.loadErr
}

func (s *fakeTokenStore) SaveAgent(_ context.Context, symbol, token, faction, headquarters string) error {
	s.saved = true
	s.savedArgs = [4]string{symbol, token, faction, headquarters}
	return nil
}

func newGameClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sched := scheduler.New(scheduler.Options{
		Logger:       zap.NewNop(),
		PollInterval: 10 * time.Millisecond,
	})
	t.Cleanup(sched.Stop)

	client := api.New(srv.URL, "test-token", sched)
	client.MaxRetries = 1
	return client
}

func TestGenerateAgentSymbolIsValid(t *testing.T) {
	r := &Registrar{Rand: rand.New(rand.NewSource(42))}

	for i := 0; i < 200; i++ {
		symbol := r.GenerateAgentSymbol()
		require.Regexp(t, callsignPattern, symbol)
		require.LessOrEqual(t, len(symbol), 14)
		require.GreaterOrEqual(t, len(symbol), 3)
	}
}

func TestGenerateAgentSymbolIsDeterministicPerSeed(t *testing.T) {
	a := &Registrar{Rand: rand.New(rand.NewSource(7))}
	b := &Registrar{Rand: rand.New(rand.NewSource(7))}
	require.Equal(t, a.GenerateAgentSymbol(), b.GenerateAgentSymbol())
}

func TestRegisterRefusesWhenTokenStored(t *testing.T) {
	client := newGameClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("registration must not reach the API when a token exists")
	}))

	registrar := &Registrar{Client: client, Store: &fakeTokenStore{token: "existing"}}
	_, err := registrar.Register(context.Background(), "VOID_X", "", "")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterSavesAgentAndToken(t *testing.T) {
	client := newGameClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"token":"fresh-token","agent":{"symbol":"VOID_X","headquarters":"X1-AA1-A1"},"contract":{"id":"c-1"},"ship":{"symbol":"VOID_X-1"}}}`))
	}))

	store := &fakeTokenStore{}
	registrar := &Registrar{Client: client, Store: store, Logger: zap.NewNop()}

	reg, err := registrar.Register(context.Background(), "VOID_X", "", "")
	require.NoError(t, err)
	require.Equal(t, "fresh-token", reg.Token)
	require.True(t, store.saved)
	require.Equal(t, [4]string{"VOID_X", "fresh-token", DefaultFaction, "X1-AA1-A1"}, store.savedArgs)
}

func TestRegisterGeneratesSymbolWhenEmpty(t *testing.T) {
	var gotSymbol string
	client := newGameClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Symbol string `json:"symbol"`
		}
		require.NoError(t, jsonDecode(r, &body))
		gotSymbol = body.Symbol
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"token":"tok","agent":{"symbol":"` + body.Symbol + `"},"contract":{"id":"c"},"ship":{"symbol":"s"}}}`))
	}))

	registrar := &Registrar{Client: client, Rand: rand.New(rand.NewSource(1))}
	_, err := registrar.Register(context.Background(), "", "", "")
	require.NoError(t, err)
	require.Regexp(t, callsignPattern, gotSymbol)
}
