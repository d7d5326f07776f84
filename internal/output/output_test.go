package output

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/store"
)

func TestParseFormat(t *testing.T) {
	for value, want := range map[string]Format{
		"":      FormatTable,
		"table": FormatTable,
		"TABLE": FormatTable,
		"json":  FormatJSON,
		" json": FormatJSON,
	} {
		got, err := ParseFormat(value)
		require.NoError(t, err, value)
		require.Equal(t, want, got, value)
	}

	_, err := ParseFormat("yaml")
	require.Error(t, err)
}

func testShips() []core.Ship {
	return []core.Ship{
		{
			Symbol:       "VOID_X-1",
			Registration: core.ShipRegistration{Role: "COMMAND"},
			Nav:          core.ShipNav{WaypointSymbol: "X1-AA1-A1", Status: core.NavStatusDocked},
			Cargo:        core.ShipCargo{Units: 3, Capacity: 40},
			Fuel:         core.ShipFuel{Current: 380, Capacity: 400},
		},
		{
			Symbol:       "VOID_X-2",
			Registration: core.ShipRegistration{Role: "EXCAVATOR"},
			Nav:          core.ShipNav{WaypointSymbol: "X1-AA1-B7", Status: core.NavStatusInOrbit},
			Cargo:        core.ShipCargo{Units: 28, Capacity: 30},
		},
	}
}

func TestRenderFleetTable(t *testing.T) {
	got, err := RenderFleet(FormatTable, testShips())
	require.NoError(t, err)
	require.Contains(t, got, "VOID_X-1")
	require.Contains(t, got, "DOCKED")
	require.Contains(t, got, "3/40")
	require.Contains(t, got, "28/30")
}

func TestRenderFleetJSON(t *testing.T) {
	got, err := RenderFleet(FormatJSON, testShips())
	require.NoError(t, err)

	var ships []core.Ship
	require.NoError(t, json.Unmarshal([]byte(got), &ships))
	require.Len(t, ships, 2)
	require.Equal(t, "VOID_X-2", ships[1].Symbol)
}

func TestRenderContracts(t *testing.T) {
	contracts := []core.Contract{
		{
			ID:            "c-1",
			Type:          "PROCUREMENT",
			FactionSymbol: "COSMIC",
			Accepted:      true,
			Terms: core.ContractTerms{
				Deadline: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
				Deliver: []core.ContractDelivery{
					{TradeSymbol: "IRON_ORE", UnitsRequired: 100, UnitsFulfilled: 40},
				},
			},
		},
		{ID: "c-2", Fulfilled: true, Accepted: true},
	}

	got, err := RenderContracts(FormatTable, contracts)
	require.NoError(t, err)
	require.Contains(t, got, "IRON_ORE 40/100")
	require.Contains(t, got, "accepted")
	require.Contains(t, got, "fulfilled")
}

func TestRenderHistory(t *testing.T) {
	entries := []store.RequestEntry{
		{
			Task:       "get_agent",
			StatusCode: 200,
			Attempts:   1,
			OK:         true,
			Duration:   150 * time.Millisecond,
			At:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{Task: "update_fleet", StatusCode: 502, Attempts: 3, OK: false},
	}

	got, err := RenderHistory(FormatTable, entries)
	require.NoError(t, err)
	require.Contains(t, got, "get_agent")
	require.Contains(t, got, "150ms")
	require.Contains(t, got, "502")
	require.Contains(t, got, "no")
}

func TestRenderAgentStatus(t *testing.T) {
	status := AgentStatus{
		Agent: core.Agent{Symbol: "VOID_X", Credits: 175000, Headquarters: "X1-AA1-A1", StartingFaction: "COSMIC"},
		Ships: testShips(),
	}
	status.Stats.Dispatched = 42
	status.Stats.RateLimit.BurstLimit = 30
	status.Stats.RateLimit.RatePerSecond = 2
	status.Stats.RateLimit.BackoffMultiplier = 1.5

	got, err := RenderAgentStatus(FormatTable, status)
	require.NoError(t, err)
	require.Contains(t, got, "VOID_X")
	require.Contains(t, got, "175000")
	require.Contains(t, got, "1.50x")
	require.Contains(t, got, "VOID_X-2")

	asJSON, err := RenderAgentStatus(FormatJSON, status)
	require.NoError(t, err)
	var decoded AgentStatus
	require.NoError(t, json.Unmarshal([]byte(asJSON), &decoded))
	require.Equal(t, int64(42), decoded.Stats.Dispatched)
}
