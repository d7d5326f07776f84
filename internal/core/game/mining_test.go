package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voidrunner/voidrunner/internal/core"
)

func survey(signature, waypoint string, expires time.Time, deposits ...string) core.Survey {
	s := core.Survey{
		Signature:  signature,
		Symbol:     waypoint,
		Expiration: expires,
		Size:       "MODERATE",
	}
	for _, d := range deposits {
		s.Deposits = append(s.Deposits, core.SurveyDeposit{Symbol: d})
	}
	return s
}

func TestAddDropsExpiredSurveys(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &SurveyManager{Clock: func() time.Time { return now }}

	m.Add(context.Background(), survey("past", "X1-A1", now.Add(-time.Minute), "IRON_ORE"))
	m.Add(context.Background(), survey("future", "X1-A1", now.Add(time.Hour), "IRON_ORE"))

	active := m.Active()
	require.Len(t, active, 1)
	require.Equal(t, "future", active[0].Signature)
}

func TestActiveExpiresSurveysAsClockAdvances(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &SurveyManager{Clock: func() time.Time { return now }}

	m.Add(context.Background(), survey("short", "X1-A1", now.Add(10*time.Minute), "IRON_ORE"))
	m.Add(context.Background(), survey("long", "X1-A1", now.Add(2*time.Hour), "IRON_ORE"))
	require.Len(t, m.Active(), 2)

	now = now.Add(time.Hour)
	active := m.Active()
	require.Len(t, active, 1)
	require.Equal(t, "long", active[0].Signature)
}

func TestBestPrefersMostMatchingDeposits(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	m := &SurveyManager{Clock: func() time.Time { return now }}

	m.Add(context.Background(), survey("one", "X1-A1", expires, "IRON_ORE", "ICE_WATER"))
	m.Add(context.Background(), survey("two", "X1-A1", expires, "IRON_ORE", "IRON_ORE", "SILICON"))
	m.Add(context.Background(), survey("none", "X1-A1", expires, "QUARTZ_SAND"))

	best, ok := m.Best("IRON_ORE")
	require.True(t, ok)
	require.Equal(t, "two", best.Signature)

	_, ok = m.Best("PRECIOUS_STONES")
	require.False(t, ok)
}

func TestForWaypointFilters(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	m := &SurveyManager{Clock: func() time.Time { return now }}

	m.Add(context.Background(), survey("a", "X1-A1", expires, "IRON_ORE"))
	m.Add(context.Background(), survey("b", "X1-B2", expires, "IRON_ORE"))

	got := m.ForWaypoint("X1-B2")
	require.Len(t, got, 1)
	require.Equal(t, "b", got[0].Signature)
}

func TestStatsAveragesYield(t *testing.T) {
	m := &SurveyManager{}
	m.history = []ExtractionRecord{
		{Extraction: core.Extraction{Yield: core.ExtractionYield{Symbol: "IRON_ORE", Units: 10}}},
		{Extraction: core.Extraction{Yield: core.ExtractionYield{Symbol: "IRON_ORE", Units: 0}}},
		{Extraction: core.Extraction{Yield: core.ExtractionYield{Symbol: "SILICON", Units: 6}}},
	}

	all := m.Stats("")
	require.Equal(t, 3, all.Extractions)
	require.InDelta(t, 16.0/3.0, all.AverageYield, 1e-9)
	require.InDelta(t, 2.0/3.0, all.SuccessRate, 1e-9)

	iron := m.Stats("IRON_ORE")
	require.Equal(t, 2, iron.Extractions)
	require.InDelta(t, 5.0, iron.AverageYield, 1e-9)
	require.InDelta(t, 0.5, iron.SuccessRate, 1e-9)

	require.Zero(t, m.Stats("GOLD_ORE"))
}
