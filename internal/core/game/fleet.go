package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/api"
)

const (
	arrivalPollInterval = 10 * time.Second
	arrivalMaxAttempts  = 30
)

// FleetManager caches the fleet and sequences navigation actions with
// their preconditions (orbit before navigate, dock before transfer).
type FleetManager struct {
	Client *api.Client
	Logger *zap.Logger

	// Sleep is injectable for arrival-wait tests.
	Sleep func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	ships map[string]core.Ship
}

// UpdateFleet refreshes the cached fleet from the API.
func (f *FleetManager) UpdateFleet(ctx context.Context) error {
	ships, err := f.Client.ListShips(ctx)
	if err != nil {
		return fmt.Errorf("update fleet: %w", err)
	}

	f.mu.Lock()
	f.ships = make(map[string]core.Ship, len(ships))
	for _, ship := range ships {
		f.ships[ship.Symbol] = ship
	}
	f.mu.Unlock()

	if f.Logger != nil {
		f.Logger.Info("fleet updated", zap.Int("ships", len(ships)))
	}
	return nil
}

// Ship returns a cached ship by symbol.
func (f *FleetManager) Ship(symbol string) (core.Ship, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ship, ok := f.ships[symbol]
	return ship, ok
}

// Ships returns a snapshot of the cached fleet.
func (f *FleetManager) Ships() []core.Ship {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Ship, 0, len(f.ships))
	for _, ship := range f.ships {
		out = append(out, ship)
	}
	return out
}

// IsMiningShip reports whether a ship has a mining frame or a mining
// mount installed.
func IsMiningShip(ship core.Ship) bool {
	frame := strings.ToUpper(ship.Frame.Symbol)
	if strings.Contains(frame, "MINING") || strings.Contains(frame, "DRONE") || frame == "FRAME_MINER" {
		return true
	}
	for _, mount := range ship.Mounts {
		symbol := strings.ToUpper(mount.Symbol)
		if strings.Contains(symbol, "MINING") || strings.Contains(symbol, "DRILL") {
			return true
		}
	}
	return false
}

// ShipsByRole splits the cached fleet into mining ships and command
// (hauling) ships.
func (f *FleetManager) ShipsByRole() (mining, command []core.Ship) {
	for _, ship := range f.Ships() {
		if IsMiningShip(ship) {
			mining = append(mining, ship)
		} else {
			command = append(command, ship)
		}
	}
	return mining, command
}

// EnsureOrbit puts a ship in orbit when it is not already there.
func (f *FleetManager) EnsureOrbit(ctx context.Context, shipSymbol string) error {
	ship, ok := f.Ship(shipSymbol)
	if ok && ship.Nav.Status == core.NavStatusInOrbit {
		return nil
	}

	nav, err := f.Client.OrbitShip(ctx, shipSymbol)
	if err != nil {
		return err
	}
	f.updateNav(shipSymbol, *nav)
	return nil
}

// EnsureDocked docks a ship when it is not already docked.
func (f *FleetManager) EnsureDocked(ctx context.Context, shipSymbol string) error {
	ship, ok := f.Ship(shipSymbol)
	if ok && ship.Nav.Status == core.NavStatusDocked {
		return nil
	}

	nav, err := f.Client.DockShip(ctx, shipSymbol)
	if err != nil {
		return err
	}
	f.updateNav(shipSymbol, *nav)
	return nil
}

// NavigateTo sends a ship to a waypoint, orbiting first when needed.
// Arriving at the current waypoint is a no-op.
func (f *FleetManager) NavigateTo(ctx context.Context, shipSymbol, waypointSymbol string) error {
	ship, ok := f.Ship(shipSymbol)
	if !ok {
		return fmt.Errorf("ship %s not in fleet", shipSymbol)
	}
	if ship.Nav.WaypointSymbol == waypointSymbol && ship.Nav.Status != core.NavStatusInTransit {
		return nil
	}

	if err := f.EnsureOrbit(ctx, shipSymbol); err != nil {
		return err
	}

	nav, err := f.Client.NavigateShip(ctx, shipSymbol, waypointSymbol)
	if err != nil {
		return err
	}
	f.updateNav(shipSymbol, *nav)

	if f.Logger != nil {
		f.Logger.Info("navigating",
			zap.String("ship", shipSymbol),
			zap.String("waypoint", waypointSymbol))
	}
	return nil
}

// WaitForArrival polls until the ship leaves IN_TRANSIT, bounded to
// about five minutes.
func (f *FleetManager) WaitForArrival(ctx context.Context, shipSymbol string) (*core.Ship, error) {
	sleep := f.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 0; attempt < arrivalMaxAttempts; attempt++ {
		ship, err := f.Client.GetShip(ctx, shipSymbol)
		if err != nil {
			return nil, err
		}
		if ship.Nav.Status != core.NavStatusInTransit {
			f.updateNav(shipSymbol, ship.Nav)
			return ship, nil
		}
		if err := sleep(ctx, arrivalPollInterval); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("timeout waiting for %s to arrive", shipSymbol)
}

// Refuel docks the ship and refuels it.
func (f *FleetManager) Refuel(ctx context.Context, shipSymbol string) error {
	if err := f.EnsureDocked(ctx, shipSymbol); err != nil {
		return err
	}
	fuel, err := f.Client.RefuelShip(ctx, shipSymbol)
	if err != nil {
		return err
	}
	if f.Logger != nil {
		f.Logger.Info("refueled",
			zap.String("ship", shipSymbol),
			zap.Int("fuel", fuel.Current),
			zap.Int("capacity", fuel.Capacity))
	}
	return nil
}

// TransferCargo moves goods between two ships, docking both first. Both
// ships must share a waypoint.
func (f *FleetManager) TransferCargo(ctx context.Context, fromSymbol, toSymbol, tradeSymbol string, units int) error {
	from, ok := f.Ship(fromSymbol)
	if !ok {
		return fmt.Errorf("ship %s not in fleet", fromSymbol)
	}
	to, ok := f.Ship(toSymbol)
	if !ok {
		return fmt.Errorf("ship %s not in fleet", toSymbol)
	}
	if from.Nav.WaypointSymbol != to.Nav.WaypointSymbol {
		return fmt.Errorf("ships %s and %s are at different waypoints (%s vs %s)",
			fromSymbol, toSymbol, from.Nav.WaypointSymbol, to.Nav.WaypointSymbol)
	}

	for _, symbol := range []string{fromSymbol, toSymbol} {
		if err := f.EnsureDocked(ctx, symbol); err != nil {
			return err
		}
	}

	cargo, err := f.Client.TransferCargo(ctx, fromSymbol, toSymbol, tradeSymbol, units)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if ship, ok := f.ships[fromSymbol]; ok {
		ship.Cargo = *cargo
		f.ships[fromSymbol] = ship
	}
	f.mu.Unlock()
	return nil
}

func (f *FleetManager) updateNav(shipSymbol string, nav core.ShipNav) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ship, ok := f.ships[shipSymbol]; ok {
		ship.Nav = nav
		f.ships[shipSymbol] = ship
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
