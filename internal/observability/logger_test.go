package observability_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/observability"
)

func TestInitCLILogger(t *testing.T) {
	observability.InitCLILogger("voidrunner-test", false)
	if observability.CLILogger == nil {
		t.Fatal("CLI logger should not be nil after initialization")
	}
	observability.CLILogger.Info("cli logger smoke test", zap.String("test", "value"))
}

func TestInitServerLogger(t *testing.T) {
	observability.InitServerLogger("voidrunner-test", "info")
	if observability.ServerLogger == nil {
		t.Fatal("Server logger should not be nil after initialization")
	}
	observability.ServerLogger.Info("server logger smoke test", zap.Int("request_id", 123))
}

func TestNewComponentLogger(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "bogus"} {
		logger := observability.NewComponentLogger(level, false)
		if logger == nil {
			t.Fatalf("component logger is nil for level %q", level)
		}
		logger.Info("component logger smoke test", zap.String("level", level))
	}

	verbose := observability.NewComponentLogger("info", true)
	if !verbose.Core().Enabled(zap.DebugLevel) {
		t.Fatal("verbose component logger should enable debug")
	}
}
