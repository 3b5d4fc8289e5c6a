/*
handlers.go - HTTP handlers for the pacing API

PURPOSE:
  Implements the HTTP surface of the pacing application. Each handler:
  1. Parses and validates input
  2. Reads agents/plans/activity/holidays from the store
  3. Calls the pure engine (calendar, pacing) with plain values
  4. Serializes the result

TIME HANDLING:
  The engine never reads the clock. Handlers resolve "today" exactly
  once, from the optional as_of query parameter or the server clock,
  and pass it down explicitly.

ERROR HANDLING:
  Errors return JSON with an appropriate status:
  - 400: Validation errors, invalid input (pacing.IsClientError)
  - 404: Agent or plan not found
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/pacing-engine/calendar"
	"github.com/warp/pacing-engine/factory"
	"github.com/warp/pacing-engine/pacing"
	"github.com/warp/pacing-engine/store/sqlite"
)

// avgDaysPerMonth is the mean Gregorian month length, used to turn
// calendar days remaining into a fractional months denominator.
const avgDaysPerMonth = 30.44

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       *sqlite.Store
	PlanFactory *factory.PlanFactory

	// Baseline is the date the brokerage adopted pacing. No agent's
	// workday count starts before it.
	Baseline calendar.Date

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and baseline.
func NewHandler(store *sqlite.Store, baseline calendar.Date) *Handler {
	return &Handler{
		Store:       store,
		PlanFactory: factory.NewPlanFactory(),
		Baseline:    baseline,
	}
}

// =============================================================================
// AGENT HANDLERS
// =============================================================================

// ListAgents returns all agents.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Store.ListAgents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list agents", err)
		return
	}

	dtos := make([]AgentDTO, len(agents))
	for i, a := range agents {
		dtos[i] = agentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAgent creates a new agent.
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Agent name is required", nil)
		return
	}

	startDate, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	agent := sqlite.Agent{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		StartDate: startDate.Time(),
	}
	if err := h.Store.SaveAgent(r.Context(), agent); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create agent", err)
		return
	}

	saved, err := h.Store.GetAgent(r.Context(), id)
	if err != nil || saved == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load created agent", err)
		return
	}
	writeJSON(w, http.StatusCreated, agentDTO(*saved))
}

// GetAgent returns a single agent.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agent, ok := h.loadAgent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, agentDTO(*agent))
}

// DeleteAgent removes an agent and its plans and activity.
func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteAgent(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete agent", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// LogActivity upserts one day of activity for an agent.
func (h *Handler) LogActivity(w http.ResponseWriter, r *http.Request) {
	agent, ok := h.loadAgent(w, r)
	if !ok {
		return
	}

	var req LogActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	counts := []int64{req.Calls, req.Engagements, req.AppointmentsSet,
		req.AppointmentsHeld, req.ContractsWritten, req.Closings}
	for _, n := range counts {
		if n < 0 {
			writeError(w, http.StatusBadRequest, "Activity counts must not be negative", nil)
			return
		}
	}
	if req.NetEarned < 0 {
		writeError(w, http.StatusBadRequest, "net_earned must not be negative", nil)
		return
	}

	entry := sqlite.ActivityEntry{
		ID:               uuid.NewString(),
		AgentID:          agent.ID,
		EntryDate:        date.Time(),
		Calls:            req.Calls,
		Engagements:      req.Engagements,
		AppointmentsSet:  req.AppointmentsSet,
		AppointmentsHeld: req.AppointmentsHeld,
		ContractsWritten: req.ContractsWritten,
		Closings:         req.Closings,
		NetEarned:        pacing.NewMoney(req.NetEarned).String(),
	}
	if err := h.Store.LogActivity(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to log activity", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActivity returns an agent's activity for a year.
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	agent, ok := h.loadAgent(w, r)
	if !ok {
		return
	}

	year := yearParam(r, time.Now().Year())
	entries, err := h.Store.ListActivity(r.Context(), agent.ID,
		calendar.StartOfYear(year).Time(), calendar.EndOfYear(year).Time())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list activity", err)
		return
	}

	dtos := make([]ActivityEntryDTO, len(entries))
	for i, e := range entries {
		earned, _ := pacing.ParseMoney(e.NetEarned)
		dtos[i] = ActivityEntryDTO{
			Date:             e.EntryDate.Format(calendar.ISO),
			Calls:            e.Calls,
			Engagements:      e.Engagements,
			AppointmentsSet:  e.AppointmentsSet,
			AppointmentsHeld: e.AppointmentsHeld,
			ContractsWritten: e.ContractsWritten,
			Closings:         e.Closings,
			NetEarned:        earned.Float64(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// SavePlan stores an agent's business plan for a year.
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	agent, ok := h.loadAgent(w, r)
	if !ok {
		return
	}

	var req SavePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Validate before storing; the report path assumes stored plans parse.
	if _, err := h.PlanFactory.Build(req.Config); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plan", err)
		return
	}

	configJSON, err := h.PlanFactory.Encode(req.Config)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode plan", err)
		return
	}

	record := sqlite.PlanRecord{
		AgentID:    agent.ID,
		Year:       req.Config.Year,
		ConfigJSON: configJSON,
	}
	if err := h.Store.SavePlan(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save plan", err)
		return
	}

	writeJSON(w, http.StatusOK, PlanDTO{
		AgentID: agent.ID,
		Year:    req.Config.Year,
		Config:  req.Config,
	})
}

// GetPlan returns an agent's plan for a year.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	agent, ok := h.loadAgent(w, r)
	if !ok {
		return
	}

	year := yearParam(r, time.Now().Year())
	record, err := h.Store.GetPlan(r.Context(), agent.ID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get plan", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No plan for %d", year), nil)
		return
	}

	var config factory.PlanJSON
	if err := json.Unmarshal([]byte(record.ConfigJSON), &config); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored plan is corrupt", err)
		return
	}

	writeJSON(w, http.StatusOK, PlanDTO{
		AgentID:   record.AgentID,
		Year:      record.Year,
		Config:    config,
		UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// PACING REPORT
// =============================================================================

// GetPacingReport assembles the full pacing picture for one agent-year:
// workday window, YTD actuals, plan targets, current-pace projection,
// and catch-up plan.
func (h *Handler) GetPacingReport(w http.ResponseWriter, r *http.Request) {
	agent, ok := h.loadAgent(w, r)
	if !ok {
		return
	}

	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of", err)
		return
	}
	year := yearParam(r, asOf.Year())

	record, err := h.Store.GetPlan(r.Context(), agent.ID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get plan", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No plan for %d", year), nil)
		return
	}
	plan, err := h.PlanFactory.ParsePlan(record.ConfigJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored plan is corrupt", err)
		return
	}

	cal, err := h.loadCalendar(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	agentStart := calendar.FromTime(agent.StartDate)
	window := cal.Window(agentStart, year, asOf)

	ytd, err := h.ytdActuals(r, agent.ID, year, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate activity", err)
		return
	}

	annual, err := pacing.RequiredFunnel(plan.IncomeGoal, plan.Assumptions)
	if err != nil {
		writeEngineError(w, "Plan assumptions failed validation", err)
		return
	}
	monthly := pacing.MonthlyTargets(annual)
	daily, err := pacing.DailyTargets(annual, plan.Assumptions.WorkingDaysPerMonth)
	if err != nil {
		writeEngineError(w, "Plan assumptions failed validation", err)
		return
	}

	projection, err := pacing.ProjectAtCurrentPace(ytd, window, plan.Assumptions)
	if err != nil {
		writeEngineError(w, "Projection failed", err)
		return
	}

	catchUp, err := pacing.BuildCatchUpPlan(plan.IncomeGoal, ytd, remainingTime(window, year, asOf), plan.Assumptions)
	if err != nil {
		writeEngineError(w, "Catch-up calculation failed", err)
		return
	}

	report := PacingReportDTO{
		AgentID:        agent.ID,
		Year:           year,
		AsOf:           asOf.String(),
		IncomeGoal:     plan.IncomeGoal.Float64(),
		Window:         windowDTO(window),
		YearProgress:   cal.YearProgress(agentStart, year, asOf),
		Ytd:            ytdDTO(ytd),
		AnnualTargets:  funnelDTO(annual),
		MonthlyTargets: funnelDTO(monthly),
		DailyTargets:   funnelDTO(daily),
		IncomeLeftToGo: catchUp.IncomeLeftToGo.Float64(),
		CatchUp:        catchUpDTO(catchUp),
	}
	if projection != nil {
		report.Projection = &ProjectionDTO{
			Targets: funnelDTO(projection.Targets),
			Income:  projection.Income.Float64(),
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// WHAT-IF PREVIEW
// =============================================================================

// PreviewFunnel converts an ad-hoc goal and assumptions into a target
// stack without persisting anything.
func (h *Handler) PreviewFunnel(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	assumptions, err := h.PlanFactory.BuildAssumptions(req.AvgCommission, req.WorkingDaysPerMonth, req.ConversionPercents)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assumptions", err)
		return
	}

	annual, err := pacing.RequiredFunnel(pacing.NewMoney(req.IncomeGoal), assumptions)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid goal", err)
		return
	}
	daily, err := pacing.DailyTargets(annual, assumptions.WorkingDaysPerMonth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assumptions", err)
		return
	}

	writeJSON(w, http.StatusOK, PreviewResponse{
		AnnualTargets:  funnelDTO(annual),
		MonthlyTargets: funnelDTO(pacing.MonthlyTargets(annual)),
		DailyTargets:   funnelDTO(daily),
	})
}

// =============================================================================
// LEADERBOARD
// =============================================================================

// GetLeaderboard ranks all agents by YTD net earnings for a year. Agents
// with a stored plan also get a projected year-end income.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of", err)
		return
	}
	year := yearParam(r, asOf.Year())

	agents, err := h.Store.ListAgents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list agents", err)
		return
	}

	cal, err := h.loadCalendar(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	entries := make([]LeaderboardEntryDTO, 0, len(agents))
	for _, agent := range agents {
		ytd, err := h.ytdActuals(r, agent.ID, year, asOf)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to aggregate activity", err)
			return
		}

		agentStart := calendar.FromTime(agent.StartDate)
		entry := LeaderboardEntryDTO{
			AgentID:      agent.ID,
			Name:         agent.Name,
			YtdNetEarned: ytd.NetEarned.Float64(),
			YtdClosings:  ytd.Closings,
			YearProgress: cal.YearProgress(agentStart, year, asOf),
		}

		// Projection needs the agent's plan assumptions; agents without
		// a plan still rank by earnings.
		if record, err := h.Store.GetPlan(r.Context(), agent.ID, year); err == nil && record != nil {
			if plan, err := h.PlanFactory.ParsePlan(record.ConfigJSON); err == nil {
				window := cal.Window(agentStart, year, asOf)
				if projection, err := pacing.ProjectAtCurrentPace(ytd, window, plan.Assumptions); err == nil && projection != nil {
					income := projection.Income.Float64()
					entry.ProjectedIncome = &income
				}
			}
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].YtdNetEarned > entries[j].YtdNetEarned
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	writeJSON(w, http.StatusOK, entries)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all configured holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{Date: hol.Date.Format(calendar.ISO), Name: hol.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday date.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	if err := h.Store.SaveHoliday(r.Context(), sqlite.Holiday{Date: date.Time(), Name: req.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// DeleteHoliday removes a holiday by date.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if err := h.Store.DeleteHoliday(r.Context(), date.Time()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddDefaultHolidays seeds the standard US holiday set for a year.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	year := yearParam(r, time.Now().Year())
	for _, hol := range defaultHolidays(year) {
		if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
			return
		}
	}
	h.ListHolidays(w, r)
}

// defaultHolidays returns the standard US brokerage holiday set.
func defaultHolidays(year int) []sqlite.Holiday {
	return []sqlite.Holiday{
		{Date: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), Name: "New Year's Day"},
		{Date: nthWeekday(year, time.May, time.Monday, -1), Name: "Memorial Day"},
		{Date: time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC), Name: "Independence Day"},
		{Date: nthWeekday(year, time.September, time.Monday, 1), Name: "Labor Day"},
		{Date: nthWeekday(year, time.November, time.Thursday, 4), Name: "Thanksgiving"},
		{Date: time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas Day"},
	}
}

// nthWeekday finds the nth weekday of a month; n = -1 means the last.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	if n > 0 {
		d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		for d.Weekday() != weekday {
			d = d.AddDate(0, 0, 1)
		}
		return d.AddDate(0, 0, (n-1)*7)
	}
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func agentDTO(a sqlite.Agent) AgentDTO {
	return AgentDTO{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		StartDate: a.StartDate.Format(calendar.ISO),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// loadAgent fetches the agent from the URL, writing the error response
// itself when the agent is missing.
func (h *Handler) loadAgent(w http.ResponseWriter, r *http.Request) (*sqlite.Agent, bool) {
	id := chi.URLParam(r, "id")
	agent, err := h.Store.GetAgent(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get agent", err)
		return nil, false
	}
	if agent == nil {
		writeError(w, http.StatusNotFound, "Agent not found", nil)
		return nil, false
	}
	return agent, true
}

// loadCalendar builds the workday calendar from stored holidays.
func (h *Handler) loadCalendar(r *http.Request) (calendar.Calendar, error) {
	dates, err := h.Store.HolidayDates(r.Context())
	if err != nil {
		return calendar.Calendar{}, err
	}
	holidays, err := calendar.NewHolidaySet(dates)
	if err != nil {
		return calendar.Calendar{}, err
	}
	return calendar.Calendar{Holidays: holidays, Baseline: h.Baseline}, nil
}

// ytdActuals aggregates stored activity into the engine's YTD snapshot,
// honoring the same year policy as workday counting: past years sum the
// whole year, the current year sums through as-of, future years sum nothing.
func (h *Handler) ytdActuals(r *http.Request, agentID string, year int, asOf calendar.Date) (pacing.YtdActuals, error) {
	from := calendar.StartOfYear(year)
	to := calendar.EndOfYear(year)
	if year >= asOf.Year() {
		to = asOf
	}
	return h.Store.ActivityTotals(r.Context(), agentID, from.Time(), to.Time())
}

// remainingTime derives the catch-up denominators from the workday window
// and the calendar days left in the year.
func remainingTime(w calendar.Window, year int, asOf calendar.Date) pacing.RemainingTime {
	calendarDays := calendar.DaysBetween(asOf, calendar.EndOfYear(year))
	if calendarDays < 0 {
		calendarDays = 0
	}
	return pacing.RemainingTime{
		Workdays: w.Remaining,
		Weeks:    float64(calendarDays) / 7,
		Months:   float64(calendarDays) / avgDaysPerMonth,
	}
}

func yearParam(r *http.Request, fallback int) int {
	if s := r.URL.Query().Get("year"); s != "" {
		if year, err := strconv.Atoi(s); err == nil {
			return year
		}
	}
	return fallback
}

// asOfParam resolves "today": the as_of query parameter when present,
// the server clock otherwise. This is the only place the clock is read.
func asOfParam(r *http.Request) (calendar.Date, error) {
	if s := r.URL.Query().Get("as_of"); s != "" {
		return calendar.ParseDate(s)
	}
	return calendar.FromTime(time.Now()), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine failures to a status: validation problems
// are the caller's (or the stored plan's) fault, anything else is ours.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	if pacing.IsClientError(err) {
		status = http.StatusBadRequest
	}
	writeError(w, status, message, err)
}
