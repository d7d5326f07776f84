package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/observability"
	"github.com/voidrunner/voidrunner/internal/server"
	"github.com/voidrunner/voidrunner/internal/server/handlers"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP status server",
	Long: `Start the HTTP status server with graceful shutdown support.

The server exposes health probes, version information, and a status
endpoint reporting the stored agent and scheduler counters. It never
issues remote API calls on its own.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logLevel := viper.GetString("logging.level")
		observability.InitServerLogger("voidrunner", logLevel)

		sess, err := newSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer sess.Close()

		cfg := sess.Config.Server
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port))

		srv := server.New(cfg, server.Deps{
			Version: versionInfo.Version,
			Logger:  sess.Logger,
			Agents:  sess.Store,
			Stats:   sess.Scheduler,
			Health: map[string]handlers.HealthChecker{
				"store": handlers.HealthCheckerFunc(func(ctx context.Context) error {
					return sess.Store.DB.PingContext(ctx)
				}),
			},
		})

		shutdownTimeout := cfg.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Shutdown handlers run LIFO: server first, then log flush.
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return err
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))
			return nil
		})

		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", cfg.Host),
				zap.Int("port", cfg.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		return <-errChan
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
