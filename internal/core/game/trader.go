package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/api"
)

// DefaultSweepInterval is the pause between automation sweeps when the
// plan names none.
const DefaultSweepInterval = 5 * time.Second

// errorSweepPause is the longer pause after a failed sweep.
const errorSweepPause = 10 * time.Second

// Trader is the top-level automation pass. It refreshes agent, fleet,
// and contract state, then works contracts and mining assignments
// until the plan's iteration budget or ctx ends the run.
type Trader struct {
	Client    *api.Client
	Fleet     *FleetManager
	Contracts *ContractManager
	Surveys   *SurveyManager
	Cooldowns *CooldownManager
	Logger    *zap.Logger

	// Sleep is injectable for sweep-cadence tests.
	Sleep func(ctx context.Context, d time.Duration) error

	agent core.Agent
}

// NewTrader wires a trader and its managers over one client.
func NewTrader(client *api.Client, logger *zap.Logger) *Trader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trader{
		Client:    client,
		Fleet:     &FleetManager{Client: client, Logger: logger},
		Contracts: &ContractManager{Client: client, Logger: logger},
		Surveys:   &SurveyManager{Client: client, Logger: logger},
		Cooldowns: &CooldownManager{Client: client, Logger: logger},
		Logger:    logger,
	}
}

// Initialize verifies the token and loads agent, fleet, and contract
// state.
func (t *Trader) Initialize(ctx context.Context) error {
	agent, err := t.Client.GetAgent(ctx)
	if err != nil {
		return fmt.Errorf("initialize agent state: %w", err)
	}
	t.agent = *agent

	if err := t.Fleet.UpdateFleet(ctx); err != nil {
		return err
	}
	if err := t.Contracts.UpdateContracts(ctx); err != nil {
		return err
	}
	if t.Surveys != nil {
		if err := t.Surveys.Restore(ctx); err != nil {
			t.Logger.Warn("restore surveys failed", zap.Error(err))
		}
	}

	t.Logger.Info("initialized",
		zap.String("agent", t.agent.Symbol),
		zap.Int64("credits", t.agent.Credits))
	return nil
}

// Agent returns the last refreshed agent snapshot.
func (t *Trader) Agent() core.Agent {
	return t.agent
}

// Run executes sweeps per the plan until the iteration budget is spent
// or ctx is cancelled.
func (t *Trader) Run(ctx context.Context, plan *Plan) error {
	if plan == nil {
		plan = &Plan{Contracts: true}
	}
	interval := plan.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	sleep := t.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for iteration := 0; plan.Iterations == 0 || iteration < plan.Iterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		pause := interval
		if err := t.Sweep(ctx, plan); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			t.Logger.Error("sweep failed", zap.Int("iteration", iteration), zap.Error(err))
			pause = errorSweepPause
		}

		if plan.Iterations != 0 && iteration == plan.Iterations-1 {
			break
		}
		if err := sleep(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}

// Sweep runs one automation pass: refresh state, work contracts, work
// mining assignments.
func (t *Trader) Sweep(ctx context.Context, plan *Plan) error {
	agent, err := t.Client.GetAgent(ctx)
	if err != nil {
		return err
	}
	t.agent = *agent

	if err := t.Fleet.UpdateFleet(ctx); err != nil {
		return err
	}

	if plan.Contracts {
		if err := t.sweepContracts(ctx); err != nil {
			return err
		}
	}

	for _, assignment := range plan.Mining {
		if err := t.workAssignment(ctx, assignment); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			t.Logger.Error("mining assignment failed",
				zap.String("ship", assignment.Ship),
				zap.Error(err))
		}
	}
	return nil
}

func (t *Trader) sweepContracts(ctx context.Context) error {
	if err := t.Contracts.UpdateContracts(ctx); err != nil {
		return err
	}
	for _, contract := range t.Contracts.Contracts() {
		if err := t.Contracts.Process(ctx, contract); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			t.Logger.Error("contract pass failed",
				zap.String("contract", contract.ID),
				zap.Error(err))
		}
	}
	return nil
}

// workAssignment runs one mining cycle for a ship: move it to the
// target waypoint, survey when nothing useful is cached, extract, then
// deliver or jettison per the assignment.
func (t *Trader) workAssignment(ctx context.Context, assignment MiningAssignment) error {
	ship, ok := t.Fleet.Ship(assignment.Ship)
	if !ok {
		return fmt.Errorf("ship %s not in fleet", assignment.Ship)
	}
	if ship.Nav.Status == core.NavStatusInTransit {
		t.Logger.Debug("ship in transit, skipping",
			zap.String("ship", ship.Symbol),
			zap.String("destination", ship.Nav.WaypointSymbol))
		return nil
	}
	if ship.Cargo.Units >= ship.Cargo.Capacity {
		return t.deliverCargo(ctx, ship, assignment)
	}

	if ship.Nav.WaypointSymbol != assignment.Waypoint {
		if err := t.Fleet.NavigateTo(ctx, ship.Symbol, assignment.Waypoint); err != nil {
			return err
		}
		if _, err := t.Fleet.WaitForArrival(ctx, ship.Symbol); err != nil {
			return err
		}
	}
	if err := t.Fleet.EnsureOrbit(ctx, ship.Symbol); err != nil {
		return err
	}
	if err := t.Cooldowns.Wait(ctx, ship.Symbol); err != nil {
		return err
	}

	var survey *core.Survey
	if assignment.Resource != "" {
		if best, ok := t.Surveys.Best(assignment.Resource); ok {
			survey = &best
		} else {
			if _, _, err := t.Surveys.CreateSurvey(ctx, ship.Symbol); err != nil {
				return err
			}
			if err := t.Cooldowns.Wait(ctx, ship.Symbol); err != nil {
				return err
			}
			if best, ok := t.Surveys.Best(assignment.Resource); ok {
				survey = &best
			}
		}
	}

	result, err := t.Surveys.Extract(ctx, ship.Symbol, survey)
	if err != nil {
		return err
	}
	if result.Cargo.Units >= result.Cargo.Capacity {
		refreshed, ok := t.Fleet.Ship(ship.Symbol)
		if ok {
			refreshed.Cargo = result.Cargo
			return t.deliverCargo(ctx, refreshed, assignment)
		}
	}
	return nil
}

// deliverCargo hands a full hold to the assignment's contract, or
// jettisons goods that no delivery term wants.
func (t *Trader) deliverCargo(ctx context.Context, ship core.Ship, assignment MiningAssignment) error {
	if assignment.DeliverTo == "" {
		return nil
	}

	contract, err := t.Client.GetContract(ctx, assignment.DeliverTo)
	if err != nil {
		return err
	}

	wanted := make(map[string]int)
	var destination string
	for _, delivery := range contract.Terms.Deliver {
		if delivery.Remaining() > 0 {
			wanted[delivery.TradeSymbol] = delivery.Remaining()
			destination = delivery.DestinationSymbol
		}
	}
	if destination == "" {
		return nil
	}

	if ship.Nav.WaypointSymbol != destination {
		if err := t.Fleet.NavigateTo(ctx, ship.Symbol, destination); err != nil {
			return err
		}
		if _, err := t.Fleet.WaitForArrival(ctx, ship.Symbol); err != nil {
			return err
		}
	}
	if err := t.Fleet.EnsureDocked(ctx, ship.Symbol); err != nil {
		return err
	}

	for _, item := range ship.Cargo.Inventory {
		remaining, ok := wanted[item.Symbol]
		if !ok {
			if _, err := t.Client.Jettison(ctx, ship.Symbol, item.Symbol, item.Units); err != nil {
				t.Logger.Warn("jettison failed",
					zap.String("ship", ship.Symbol),
					zap.String("good", item.Symbol),
					zap.Error(err))
			}
			continue
		}

		units := item.Units
		if units > remaining {
			units = remaining
		}
		if err := t.Contracts.Deliver(ctx, contract.ID, ship.Symbol, item.Symbol, units); err != nil {
			return err
		}
	}
	return nil
}
