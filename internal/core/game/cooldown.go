package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core/api"
)

// CooldownManager waits out reactor cooldowns before the next survey or
// extract action.
type CooldownManager struct {
	Client *api.Client
	Logger *zap.Logger

	// Sleep is injectable so waits run without real time in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Wait blocks until the ship has no active cooldown or ctx is done.
func (m *CooldownManager) Wait(ctx context.Context, shipSymbol string) error {
	sleep := m.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for {
		cooldown, err := m.Client.GetShipCooldown(ctx, shipSymbol)
		if err != nil {
			return err
		}
		if cooldown == nil || cooldown.RemainingSeconds <= 0 {
			return nil
		}

		wait := time.Duration(cooldown.RemainingSeconds) * time.Second
		if m.Logger != nil {
			m.Logger.Debug("waiting for cooldown",
				zap.String("ship", shipSymbol),
				zap.Duration("remaining", wait))
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}
