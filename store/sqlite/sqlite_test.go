/*
sqlite_test.go - Store tests over an in-memory database
*/
package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pacing-engine/pacing"
	"github.com/warp/pacing-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// AGENTS
// =============================================================================

func TestAgentCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	agent := sqlite.Agent{
		ID:        "agent-1",
		Name:      "Riley Chen",
		Email:     "riley@example.com",
		StartDate: day("2026-01-05"),
	}
	require.NoError(t, store.SaveAgent(ctx, agent))

	got, err := store.GetAgent(ctx, "agent-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Riley Chen", got.Name)
	assert.Equal(t, day("2026-01-05"), got.StartDate)

	// Upsert updates in place
	agent.Name = "Riley J. Chen"
	require.NoError(t, store.SaveAgent(ctx, agent))
	got, err = store.GetAgent(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "Riley J. Chen", got.Name)

	agents, err := store.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 1)

	require.NoError(t, store.DeleteAgent(ctx, "agent-1"))
	got, err = store.GetAgent(ctx, "agent-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAgent_MissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetAgent(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// =============================================================================
// PLANS
// =============================================================================

func TestPlanRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAgent(ctx, sqlite.Agent{
		ID: "agent-1", Name: "A", Email: "a@example.com", StartDate: day("2026-01-05"),
	}))

	config := `{"year":2026,"income_goal":120000}`
	require.NoError(t, store.SavePlan(ctx, sqlite.PlanRecord{
		AgentID: "agent-1", Year: 2026, ConfigJSON: config,
	}))

	got, err := store.GetPlan(ctx, "agent-1", 2026)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, config, got.ConfigJSON)

	// Missing year
	got, err = store.GetPlan(ctx, "agent-1", 2027)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Replacing a year's plan
	require.NoError(t, store.SavePlan(ctx, sqlite.PlanRecord{
		AgentID: "agent-1", Year: 2026, ConfigJSON: `{"year":2026,"income_goal":150000}`,
	}))
	got, err = store.GetPlan(ctx, "agent-1", 2026)
	require.NoError(t, err)
	assert.Contains(t, got.ConfigJSON, "150000")
}

func TestDeleteAgent_CascadesPlansAndActivity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAgent(ctx, sqlite.Agent{
		ID: "agent-1", Name: "A", Email: "a@example.com", StartDate: day("2026-01-05"),
	}))
	require.NoError(t, store.SavePlan(ctx, sqlite.PlanRecord{
		AgentID: "agent-1", Year: 2026, ConfigJSON: `{}`,
	}))
	require.NoError(t, store.LogActivity(ctx, sqlite.ActivityEntry{
		ID: "e-1", AgentID: "agent-1", EntryDate: day("2026-01-05"), Calls: 10,
	}))

	require.NoError(t, store.DeleteAgent(ctx, "agent-1"))

	plan, err := store.GetPlan(ctx, "agent-1", 2026)
	require.NoError(t, err)
	assert.Nil(t, plan)

	entries, err := store.ListActivity(ctx, "agent-1", day("2026-01-01"), day("2026-12-31"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// =============================================================================
// ACTIVITY LOG
// =============================================================================

func TestLogActivity_UpsertReplacesDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAgent(ctx, sqlite.Agent{
		ID: "agent-1", Name: "A", Email: "a@example.com", StartDate: day("2026-01-05"),
	}))

	require.NoError(t, store.LogActivity(ctx, sqlite.ActivityEntry{
		ID: "e-1", AgentID: "agent-1", EntryDate: day("2026-01-05"),
		Calls: 10, Engagements: 2,
	}))

	// Re-submitting the same day replaces the counts, it does not add a row
	require.NoError(t, store.LogActivity(ctx, sqlite.ActivityEntry{
		ID: "e-2", AgentID: "agent-1", EntryDate: day("2026-01-05"),
		Calls: 25, Engagements: 6, NetEarned: "3000",
	}))

	entries, err := store.ListActivity(ctx, "agent-1", day("2026-01-01"), day("2026-01-31"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(25), entries[0].Calls)
	assert.Equal(t, int64(6), entries[0].Engagements)
	assert.Equal(t, "3000", entries[0].NetEarned)
}

func TestActivityTotals_SumsRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAgent(ctx, sqlite.Agent{
		ID: "agent-1", Name: "A", Email: "a@example.com", StartDate: day("2026-01-05"),
	}))

	days := []sqlite.ActivityEntry{
		{ID: "e-1", AgentID: "agent-1", EntryDate: day("2026-01-05"),
			Calls: 50, Engagements: 12, AppointmentsSet: 2, AppointmentsHeld: 1},
		{ID: "e-2", AgentID: "agent-1", EntryDate: day("2026-01-06"),
			Calls: 40, Engagements: 10, ContractsWritten: 1},
		{ID: "e-3", AgentID: "agent-1", EntryDate: day("2026-01-07"),
			Calls: 45, Closings: 1, NetEarned: "3000"},
		// Outside the queried range
		{ID: "e-4", AgentID: "agent-1", EntryDate: day("2026-02-01"),
			Calls: 999, NetEarned: "9999"},
	}
	for _, e := range days {
		require.NoError(t, store.LogActivity(ctx, e))
	}

	ytd, err := store.ActivityTotals(ctx, "agent-1", day("2026-01-01"), day("2026-01-31"))
	require.NoError(t, err)

	assert.Equal(t, int64(135), ytd.Calls)
	assert.Equal(t, int64(22), ytd.Engagements)
	assert.Equal(t, int64(2), ytd.AppointmentsSet)
	assert.Equal(t, int64(1), ytd.AppointmentsHeld)
	assert.Equal(t, int64(1), ytd.ContractsWritten)
	assert.Equal(t, int64(1), ytd.Closings)
	assert.True(t, ytd.NetEarned.Equal(pacing.NewMoneyFromInt(3000)),
		"expected 3000 earned, got %s", ytd.NetEarned)
}

func TestActivityTotals_EmptyRangeIsZero(t *testing.T) {
	store := newTestStore(t)

	ytd, err := store.ActivityTotals(context.Background(), "agent-1",
		day("2026-01-01"), day("2026-12-31"))
	require.NoError(t, err)
	assert.Zero(t, ytd.Calls)
	assert.Zero(t, ytd.Closings)
	assert.True(t, ytd.NetEarned.IsZero())
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidayRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHoliday(ctx, sqlite.Holiday{
		Date: day("2026-07-04"), Name: "Independence Day",
	}))
	require.NoError(t, store.SaveHoliday(ctx, sqlite.Holiday{
		Date: day("2026-01-01"), Name: "New Year's Day",
	}))

	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "New Year's Day", holidays[0].Name) // date order

	dates, err := store.HolidayDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-01", "2026-07-04"}, dates)

	require.NoError(t, store.DeleteHoliday(ctx, day("2026-07-04")))
	holidays, err = store.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, holidays, 1)
}

// =============================================================================
// ADMIN
// =============================================================================

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAgent(ctx, sqlite.Agent{
		ID: "agent-1", Name: "A", Email: "a@example.com", StartDate: day("2026-01-05"),
	}))
	require.NoError(t, store.SaveHoliday(ctx, sqlite.Holiday{
		Date: day("2026-01-01"), Name: "New Year's Day",
	}))

	require.NoError(t, store.Reset(ctx))

	agents, err := store.ListAgents(ctx)
	require.NoError(t, err)
	assert.Empty(t, agents)

	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}
