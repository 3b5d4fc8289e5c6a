/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates agents, plans,
	holidays, and activity history that demonstrate specific pacing
	situations.

AVAILABLE SCENARIOS:

	fresh-start:  New agent with a plan and no logged activity yet
	on-pace:      Agent mid-year logging roughly the daily targets
	behind-pace:  Agent mid-year at about half the needed volume
	mid-year-hire: Agent who started in June; shorter workday window

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Seed default holidays for the scenario year
 3. Create agents with start dates
 4. Store plan configs via the factory schema
 5. Generate workday-by-workday activity entries

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shares the Handler dependencies
  - factory/plan.go: Plan JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/warp/pacing-engine/calendar"
	"github.com/warp/pacing-engine/factory"
	"github.com/warp/pacing-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

const scenarioYear = 2026

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "New agent with a business plan and no activity logged yet",
	},
	{
		ID:          "on-pace",
		Name:        "On Pace",
		Description: "Agent halfway through the year logging roughly the daily targets",
	},
	{
		ID:          "behind-pace",
		Name:        "Behind Pace",
		Description: "Agent at about half the call volume the plan requires",
	},
	{
		ID:          "mid-year-hire",
		Name:        "Mid-Year Hire",
		Description: "Agent who joined in June; pacing window starts at the hire date",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario ID.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	w.WriteHeader(http.StatusNoContent)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "fresh-start":
		err = h.loadFreshStart(ctx)
	case "on-pace":
		err = h.loadPaced(ctx, "Avery Brooks", "avery@demo.example", 15, 1)
	case "behind-pace":
		err = h.loadPaced(ctx, "Jordan Reyes", "jordan@demo.example", 7, 0)
	case "mid-year-hire":
		err = h.loadMidYearHire(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// demoPlan is the shared plan config: $120k goal at $3k average
// commission with typical brokerage conversion rates.
func demoPlan() factory.PlanJSON {
	return factory.PlanJSON{
		Year:                scenarioYear,
		IncomeGoal:          120000,
		AvgCommission:       3000,
		WorkingDaysPerMonth: 20,
		ConversionPercents: factory.ConversionPercents{
			CallToEngagement:        25,
			EngagementToAppointment: 10,
			AppointmentSetToHeld:    90,
			AppointmentToContract:   20,
			ContractToClosing:       80,
		},
	}
}

func (h *Handler) seedAgent(ctx context.Context, name, email, startDate string) (string, error) {
	start, err := calendar.ParseDate(startDate)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := h.Store.SaveAgent(ctx, sqlite.Agent{
		ID:        id,
		Name:      name,
		Email:     email,
		StartDate: start.Time(),
	}); err != nil {
		return "", err
	}

	config, err := h.PlanFactory.Encode(demoPlan())
	if err != nil {
		return "", err
	}
	return id, h.Store.SavePlan(ctx, sqlite.PlanRecord{
		AgentID:    id,
		Year:       scenarioYear,
		ConfigJSON: config,
	})
}

func (h *Handler) seedHolidays(ctx context.Context) error {
	for _, hol := range defaultHolidays(scenarioYear) {
		if err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadFreshStart(ctx context.Context) error {
	if err := h.seedHolidays(ctx); err != nil {
		return err
	}
	_, err := h.seedAgent(ctx, "Riley Chen", "riley@demo.example", "2026-01-05")
	return err
}

// loadPaced seeds an agent with activity from January through June at a
// steady daily volume. callsPerDay around 15 keeps pace with the demo
// plan; lower volumes fall behind.
func (h *Handler) loadPaced(ctx context.Context, name, email string, callsPerDay, closingsPerMonth int64) error {
	if err := h.seedHolidays(ctx); err != nil {
		return err
	}
	agentID, err := h.seedAgent(ctx, name, email, "2026-01-05")
	if err != nil {
		return err
	}
	return h.seedActivity(ctx, agentID, "2026-01-05", "2026-06-30", callsPerDay, closingsPerMonth)
}

func (h *Handler) loadMidYearHire(ctx context.Context) error {
	if err := h.seedHolidays(ctx); err != nil {
		return err
	}
	agentID, err := h.seedAgent(ctx, "Sam Okafor", "sam@demo.example", "2026-06-01")
	if err != nil {
		return err
	}
	return h.seedActivity(ctx, agentID, "2026-06-01", "2026-06-30", 12, 0)
}

// seedActivity writes one entry per workday in [from, to]. Closings land
// on the last workday of each month, each worth the demo commission.
func (h *Handler) seedActivity(ctx context.Context, agentID, from, to string, callsPerDay, closingsPerMonth int64) error {
	start, err := calendar.ParseDate(from)
	if err != nil {
		return err
	}
	end, err := calendar.ParseDate(to)
	if err != nil {
		return err
	}

	dates, err := h.Store.HolidayDates(ctx)
	if err != nil {
		return err
	}
	holidays, err := calendar.NewHolidaySet(dates)
	if err != nil {
		return err
	}

	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if !holidays.IsWorkday(d) {
			continue
		}

		entry := sqlite.ActivityEntry{
			ID:          uuid.NewString(),
			AgentID:     agentID,
			EntryDate:   d.Time(),
			Calls:       callsPerDay,
			Engagements: callsPerDay / 4,
		}
		if d.Day() >= 25 {
			entry.AppointmentsSet = 1
			entry.AppointmentsHeld = 1
		}
		// Month-end: contracts and closings clear together in the demo.
		if lastWorkdayOfMonth(d, holidays) {
			entry.ContractsWritten = closingsPerMonth
			entry.Closings = closingsPerMonth
			entry.NetEarned = fmt.Sprintf("%d", closingsPerMonth*3000)
		}

		if err := h.Store.LogActivity(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func lastWorkdayOfMonth(d calendar.Date, holidays calendar.HolidaySet) bool {
	for next := d.AddDays(1); next.Month() == d.Month(); next = next.AddDays(1) {
		if holidays.IsWorkday(next) {
			return false
		}
	}
	return true
}
