package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/config"
	"github.com/voidrunner/voidrunner/internal/core/api"
	"github.com/voidrunner/voidrunner/internal/core/scheduler"
	"github.com/voidrunner/voidrunner/internal/core/store"
	"github.com/voidrunner/voidrunner/internal/observability"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// session bundles the scheduler, API client and store a command needs
// to talk to the remote game service.
type session struct {
	Config    *config.Config
	Store     *store.Store
	Scheduler *scheduler.Scheduler
	Client    *api.Client
	Logger    *zap.Logger
}

// Close stops the scheduler and releases the store. Safe to defer
// immediately after newSession returns successfully.
func (s *session) Close() {
	if s.Scheduler != nil {
		s.Scheduler.Stop()
	}
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

// newSession wires config, store, scheduler and client together. The
// bearer token comes from config when set, otherwise from the stored
// agent record; requireToken controls whether a missing token is fatal.
func newSession(ctx context.Context, requireToken bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger := observability.NewComponentLogger(cfg.Logging.Level, verbose)

	token := cfg.API.Token
	if token == "" {
		stored, err := db.LoadToken(ctx)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("load stored token: %w", err)
		}
		token = stored
	}
	if token == "" && requireToken {
		_ = db.Close()
		return nil, fmt.Errorf("no agent token configured; run 'voidrunner register' first or set %s_API_TOKEN", config.EnvPrefix)
	}

	state := scheduler.NewRateLimitState()
	state.SetLimits(cfg.Scheduler.BurstLimit, cfg.Scheduler.RatePerSecond)

	sched := scheduler.New(scheduler.Options{
		Logger: logger,
		State:  state,
		OnResult: func(rec scheduler.Record) {
			appendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.AppendRequest(appendCtx, rec); err != nil {
				logger.Warn("failed to journal request", zap.Error(err))
			}
		},
	})
	sched.Start()

	client := api.New(cfg.API.BaseURL, token, sched)
	client.MaxRetries = cfg.Scheduler.MaxRetries
	client.Logger = logger
	if cfg.API.Timeout > 0 {
		client.HTTP = &http.Client{Timeout: cfg.API.Timeout}
	}

	return &session{
		Config:    cfg,
		Store:     db,
		Scheduler: sched,
		Client:    client,
		Logger:    logger,
	}, nil
}
