/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's value types from the external API contract: decimals become
  plain JSON numbers here, and nothing upstream of this file formats money
  or percentages.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Handlers validate; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/plan.go: PlanJSON type embedded in plan payloads
*/
package api

import (
	"github.com/warp/pacing-engine/calendar"
	"github.com/warp/pacing-engine/factory"
	"github.com/warp/pacing-engine/pacing"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// AGENTS
// =============================================================================

type AgentDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	StartDate string `json:"start_date"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateAgentRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	StartDate string `json:"start_date"`
}

// =============================================================================
// ACTIVITY
// =============================================================================

type LogActivityRequest struct {
	Date             string  `json:"date"`
	Calls            int64   `json:"calls"`
	Engagements      int64   `json:"engagements"`
	AppointmentsSet  int64   `json:"appointments_set"`
	AppointmentsHeld int64   `json:"appointments_held"`
	ContractsWritten int64   `json:"contracts_written"`
	Closings         int64   `json:"closings"`
	NetEarned        float64 `json:"net_earned"`
}

type ActivityEntryDTO struct {
	Date             string  `json:"date"`
	Calls            int64   `json:"calls"`
	Engagements      int64   `json:"engagements"`
	AppointmentsSet  int64   `json:"appointments_set"`
	AppointmentsHeld int64   `json:"appointments_held"`
	ContractsWritten int64   `json:"contracts_written"`
	Closings         int64   `json:"closings"`
	NetEarned        float64 `json:"net_earned"`
}

// =============================================================================
// PLANS
// =============================================================================

type PlanDTO struct {
	AgentID   string           `json:"agent_id"`
	Year      int              `json:"year"`
	Config    factory.PlanJSON `json:"config"`
	UpdatedAt string           `json:"updated_at,omitempty"`
}

type SavePlanRequest struct {
	Config factory.PlanJSON `json:"config"`
}

// =============================================================================
// PACING REPORT
// =============================================================================

type FunnelDTO struct {
	Calls            int64 `json:"calls"`
	Engagements      int64 `json:"engagements"`
	AppointmentsSet  int64 `json:"appointments_set"`
	AppointmentsHeld int64 `json:"appointments_held"`
	ContractsWritten int64 `json:"contracts_written"`
	Closings         int64 `json:"closings"`
}

type WindowDTO struct {
	Elapsed   int `json:"elapsed"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

type YtdDTO struct {
	FunnelDTO
	NetEarned float64 `json:"net_earned"`
}

type ProjectionDTO struct {
	Targets FunnelDTO `json:"targets"`
	Income  float64   `json:"income"`
}

type CatchUpMetricDTO struct {
	Remaining int64   `json:"remaining"`
	PerDay    float64 `json:"per_day"`
	PerWeek   float64 `json:"per_week"`
	PerMonth  float64 `json:"per_month"`
}

type PacingReportDTO struct {
	AgentID        string                      `json:"agent_id"`
	Year           int                         `json:"year"`
	AsOf           string                      `json:"as_of"`
	IncomeGoal     float64                     `json:"income_goal"`
	Window         WindowDTO                   `json:"window"`
	YearProgress   float64                     `json:"year_progress"`
	Ytd            YtdDTO                      `json:"ytd"`
	AnnualTargets  FunnelDTO                   `json:"annual_targets"`
	MonthlyTargets FunnelDTO                   `json:"monthly_targets"`
	DailyTargets   FunnelDTO                   `json:"daily_targets"`
	Projection     *ProjectionDTO              `json:"projection"`
	IncomeLeftToGo float64                     `json:"income_left_to_go"`
	CatchUp        map[string]CatchUpMetricDTO `json:"catch_up"`
}

// =============================================================================
// WHAT-IF PREVIEW
// =============================================================================

type PreviewRequest struct {
	IncomeGoal          float64                    `json:"income_goal"`
	AvgCommission       float64                    `json:"avg_commission"`
	WorkingDaysPerMonth int                        `json:"working_days_per_month"`
	ConversionPercents  factory.ConversionPercents `json:"conversion_percents"`
}

type PreviewResponse struct {
	AnnualTargets  FunnelDTO `json:"annual_targets"`
	MonthlyTargets FunnelDTO `json:"monthly_targets"`
	DailyTargets   FunnelDTO `json:"daily_targets"`
}

// =============================================================================
// LEADERBOARD
// =============================================================================

type LeaderboardEntryDTO struct {
	Rank            int      `json:"rank"`
	AgentID         string   `json:"agent_id"`
	Name            string   `json:"name"`
	YtdNetEarned    float64  `json:"ytd_net_earned"`
	YtdClosings     int64    `json:"ytd_closings"`
	YearProgress    float64  `json:"year_progress"`
	ProjectedIncome *float64 `json:"projected_income,omitempty"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func funnelDTO(ft pacing.FunnelTargets) FunnelDTO {
	return FunnelDTO{
		Calls:            ft.Calls,
		Engagements:      ft.Engagements,
		AppointmentsSet:  ft.AppointmentsSet,
		AppointmentsHeld: ft.AppointmentsHeld,
		ContractsWritten: ft.ContractsWritten,
		Closings:         ft.Closings,
	}
}

func ytdDTO(y pacing.YtdActuals) YtdDTO {
	return YtdDTO{
		FunnelDTO: FunnelDTO{
			Calls:            y.Calls,
			Engagements:      y.Engagements,
			AppointmentsSet:  y.AppointmentsSet,
			AppointmentsHeld: y.AppointmentsHeld,
			ContractsWritten: y.ContractsWritten,
			Closings:         y.Closings,
		},
		NetEarned: y.NetEarned.Float64(),
	}
}

func windowDTO(w calendar.Window) WindowDTO {
	return WindowDTO{Elapsed: w.Elapsed, Total: w.Total, Remaining: w.Remaining}
}

func catchUpDTO(plan *pacing.CatchUpPlan) map[string]CatchUpMetricDTO {
	out := make(map[string]CatchUpMetricDTO, len(plan.Metrics))
	for stage, m := range plan.Metrics {
		perDay, _ := m.PerDay.Float64()
		perWeek, _ := m.PerWeek.Float64()
		perMonth, _ := m.PerMonth.Float64()
		out[string(stage)] = CatchUpMetricDTO{
			Remaining: m.Remaining,
			PerDay:    perDay,
			PerWeek:   perWeek,
			PerMonth:  perMonth,
		}
	}
	return out
}
