package server

import (
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/observability"
	"github.com/voidrunner/voidrunner/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes(deps Deps) {
	hm := handlers.NewHealthManager(deps.Version)
	for name, checker := range deps.Health {
		hm.RegisterChecker(name, checker)
	}

	s.router.Get("/health", hm.HealthHandler)
	s.router.Get("/health/live", hm.LivenessHandler)
	s.router.Get("/health/ready", hm.ReadinessHandler)

	s.router.Get("/version", handlers.VersionHandler)

	status := &handlers.StatusHandler{Agents: deps.Agents, Stats: deps.Stats}
	s.router.Get("/status", status.ServeHTTP)

	s.registerAdminEndpoint()
}

// registerAdminEndpoint optionally registers the admin signal endpoint
func (s *Server) registerAdminEndpoint() {
	adminToken := os.Getenv("VOIDRUNNER_ADMIN_TOKEN")
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no VOIDRUNNER_ADMIN_TOKEN set)")
		}
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,
		RateBurst: 5,
		Manager:   nil,
	})

	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("auth", "bearer token"),
			zap.String("rate_limit", "10/min, burst 5"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
