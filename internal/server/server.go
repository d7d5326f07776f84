package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/config"
	apperrors "github.com/voidrunner/voidrunner/internal/errors"
	"github.com/voidrunner/voidrunner/internal/observability"
	"github.com/voidrunner/voidrunner/internal/server/handlers"
	servermw "github.com/voidrunner/voidrunner/internal/server/middleware"
)

// Deps carries the components the status server reports on. Any field
// may be nil; the corresponding endpoint section is omitted.
type Deps struct {
	Version string
	Logger  *zap.Logger
	Agents  handlers.AgentProvider
	Stats   handlers.StatsProvider
	Health  map[string]handlers.HealthChecker
}

// Server represents the HTTP status server
type Server struct {
	router *chi.Mux
	server *http.Server
	config config.ServerConfig
}

// New creates a new HTTP server instance
func New(cfg config.ServerConfig, deps Deps) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)

	// Custom middleware in order (RequestID → Logging → Recovery)
	r.Use(servermw.RequestID)
	if deps.Logger != nil {
		r.Use(servermw.RequestLogger(deps.Logger))
	}
	r.Use(servermw.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		err := apperrors.NewNotFoundError("The requested resource was not found")
		HandleError(w, req, err)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		err := apperrors.NewMethodNotAllowedError("The requested method is not allowed for this resource")
		HandleError(w, req, err)
	})

	s := &Server{
		router: r,
		config: cfg,
	}

	// Ensure handlers use the centralized error responder
	handlers.SetHTTPErrorResponder(HandleError)

	s.registerRoutes(deps)

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("Starting HTTP server",
			zap.String("host", s.config.Host),
			zap.Int("port", s.config.Port),
			zap.String("addr", addr))
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("Shutting down HTTP server")
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing and instrumentation
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured server port
func (s *Server) Port() int {
	return s.config.Port
}
