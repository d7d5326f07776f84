package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/scheduler"
	"github.com/voidrunner/voidrunner/internal/core/store"
)

// AgentStatus bundles the agent snapshot with live scheduler stats for
// the status command.
type AgentStatus struct {
	Agent core.Agent      `json:"agent"`
	Ships []core.Ship     `json:"ships"`
	Stats scheduler.Stats `json:"stats"`
}

// RenderAgentStatus renders the status command payload.
func RenderAgentStatus(format Format, status AgentStatus) (string, error) {
	if format == FormatJSON {
		return renderJSON(status)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Agent " + status.Agent.Symbol)
	t.AppendRow(table.Row{"Credits", status.Agent.Credits})
	t.AppendRow(table.Row{"Headquarters", status.Agent.Headquarters})
	t.AppendRow(table.Row{"Faction", status.Agent.StartingFaction})
	t.AppendRow(table.Row{"Ships", len(status.Ships)})
	t.AppendRow(table.Row{"Rate limit", fmt.Sprintf("%d burst, %.2g/s, multiplier %.2fx",
		status.Stats.RateLimit.BurstLimit, status.Stats.RateLimit.RatePerSecond, status.Stats.RateLimit.BackoffMultiplier)})
	t.AppendRow(table.Row{"Dispatched", status.Stats.Dispatched})
	t.AppendRow(table.Row{"Throttled", status.Stats.Throttled})

	rendered := t.Render()
	if len(status.Ships) > 0 {
		fleet, err := RenderFleet(FormatTable, status.Ships)
		if err != nil {
			return "", err
		}
		rendered += "\n" + fleet
	}
	return rendered, nil
}

// RenderFleet renders the ship list.
func RenderFleet(format Format, ships []core.Ship) (string, error) {
	if format == FormatJSON {
		return renderJSON(ships)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Ship", "Role", "Status", "Waypoint", "Cargo", "Fuel"})
	for _, ship := range ships {
		t.AppendRow(table.Row{
			ship.Symbol,
			ship.Registration.Role,
			string(ship.Nav.Status),
			ship.Nav.WaypointSymbol,
			fmt.Sprintf("%d/%d", ship.Cargo.Units, ship.Cargo.Capacity),
			fmt.Sprintf("%d/%d", ship.Fuel.Current, ship.Fuel.Capacity),
		})
	}
	return t.Render(), nil
}

// RenderContracts renders the contract list.
func RenderContracts(format Format, contracts []core.Contract) (string, error) {
	if format == FormatJSON {
		return renderJSON(contracts)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Contract", "Type", "Faction", "State", "Deliveries", "Deadline"})
	for _, contract := range contracts {
		t.AppendRow(table.Row{
			contract.ID,
			contract.Type,
			contract.FactionSymbol,
			contractState(contract),
			deliverySummary(contract),
			contract.Terms.Deadline.Format(time.RFC3339),
		})
	}
	return t.Render(), nil
}

// RenderHistory renders request journal entries.
func RenderHistory(format Format, entries []store.RequestEntry) (string, error) {
	if format == FormatJSON {
		return renderJSON(entries)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"At", "Task", "Status", "Attempts", "Duration", "OK"})
	for _, entry := range entries {
		ok := "yes"
		if !entry.OK {
			ok = "no"
		}
		t.AppendRow(table.Row{
			entry.At.Format(time.RFC3339),
			entry.Task,
			entry.StatusCode,
			entry.Attempts,
			entry.Duration.String(),
			ok,
		})
	}
	return t.Render(), nil
}

func contractState(contract core.Contract) string {
	switch {
	case contract.Fulfilled:
		return "fulfilled"
	case contract.Accepted:
		return "accepted"
	default:
		return "offered"
	}
}

func deliverySummary(contract core.Contract) string {
	if len(contract.Terms.Deliver) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(contract.Terms.Deliver))
	for _, delivery := range contract.Terms.Deliver {
		parts = append(parts, fmt.Sprintf("%s %d/%d",
			delivery.TradeSymbol, delivery.UnitsFulfilled, delivery.UnitsRequired))
	}
	return strings.Join(parts, ", ")
}
