/*
Package factory provides JSON to Go plan conversion.

PURPOSE:
  Converts JSON business-plan definitions into validated pacing.Plan
  values. This is the boundary layer: it owns the percent-to-rate
  conversion (forms show 25, the engine wants 0.25) and applies defaults,
  so the engine only ever sees pre-validated decimals.

WHY JSON?
  - Plans are edited in an admin UI and stored per agent per year
  - Version control and database storage of plan configs
  - No code changes to adjust a brokerage's assumptions

JSON SCHEMA:
  {
    "year": 2026,
    "income_goal": 120000,
    "avg_commission": 3000,
    "working_days_per_month": 20,
    "conversion_percents": {
      "call_to_engagement": 25,
      "engagement_to_appointment": 10,
      "appointment_set_to_held": 90,
      "appointment_to_contract": 20,
      "contract_to_closing": 80
    }
  }

DEFAULTS:
  appointment_set_to_held defaults to 100 when omitted - a plan that does
  not distinguish set from held collapses the two stages.

SEE ALSO:
  - pacing/types.go: Plan and Assumptions definitions
  - api/handlers.go: Stores and retrieves plan JSON per agent
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/pacing-engine/pacing"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PlanJSON is the JSON representation of an agent's business plan.
// Percentages are user-facing 0-100 values, dollars are plain numbers.
type PlanJSON struct {
	Year                int                 `json:"year"`
	IncomeGoal          float64             `json:"income_goal"`
	AvgCommission       float64             `json:"avg_commission"`
	WorkingDaysPerMonth int                 `json:"working_days_per_month"`
	ConversionPercents  ConversionPercents  `json:"conversion_percents"`
}

// ConversionPercents carries the rate chain in form units (0-100).
type ConversionPercents struct {
	CallToEngagement        float64 `json:"call_to_engagement"`
	EngagementToAppointment float64 `json:"engagement_to_appointment"`
	AppointmentSetToHeld    float64 `json:"appointment_set_to_held,omitempty"`
	AppointmentToContract   float64 `json:"appointment_to_contract"`
	ContractToClosing       float64 `json:"contract_to_closing"`
}

// =============================================================================
// PLAN FACTORY
// =============================================================================

type PlanFactory struct{}

func NewPlanFactory() *PlanFactory { return &PlanFactory{} }

// ParsePlan converts a JSON plan into a validated pacing.Plan.
func (f *PlanFactory) ParsePlan(jsonStr string) (*pacing.Plan, error) {
	var pj PlanJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("invalid plan JSON: %w", err)
	}
	return f.Build(pj)
}

// Build converts an already-decoded PlanJSON into a validated pacing.Plan.
func (f *PlanFactory) Build(pj PlanJSON) (*pacing.Plan, error) {
	if pj.Year < 1 {
		return nil, fmt.Errorf("plan year %d: must be a calendar year", pj.Year)
	}
	if pj.IncomeGoal < 0 {
		return nil, fmt.Errorf("income_goal %v: must not be negative", pj.IncomeGoal)
	}

	assumptions, err := f.BuildAssumptions(pj.AvgCommission, pj.WorkingDaysPerMonth, pj.ConversionPercents)
	if err != nil {
		return nil, err
	}

	return &pacing.Plan{
		Year:        pj.Year,
		IncomeGoal:  pacing.NewMoney(pj.IncomeGoal),
		Assumptions: assumptions,
	}, nil
}

// BuildAssumptions converts form-unit values (dollars, 0-100 percents)
// into validated engine assumptions.
func (f *PlanFactory) BuildAssumptions(avgCommission float64, workingDaysPerMonth int, percents ConversionPercents) (pacing.Assumptions, error) {
	setToHeld := percents.AppointmentSetToHeld
	if setToHeld == 0 {
		setToHeld = 100
	}

	assumptions := pacing.Assumptions{
		AvgCommission:       pacing.NewMoney(avgCommission),
		WorkingDaysPerMonth: workingDaysPerMonth,
		Rates: pacing.ConversionRates{
			CallToEngagement:        percentToRate(percents.CallToEngagement),
			EngagementToAppointment: percentToRate(percents.EngagementToAppointment),
			AppointmentSetToHeld:    percentToRate(setToHeld),
			AppointmentToContract:   percentToRate(percents.AppointmentToContract),
			ContractToClosing:       percentToRate(percents.ContractToClosing),
		},
	}

	if err := assumptions.Validate(); err != nil {
		return pacing.Assumptions{}, err
	}
	return assumptions, nil
}

// Encode marshals a PlanJSON for storage.
func (f *PlanFactory) Encode(pj PlanJSON) (string, error) {
	b, err := json.Marshal(pj)
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	return string(b), nil
}

// percentToRate divides a 0-100 form value down to the (0,1] decimal the
// engine works with. Range validation happens in Assumptions.Validate.
func percentToRate(percent float64) pacing.Rate {
	return pacing.Rate{Value: pacing.NewMoney(percent).Value.Div(hundred)}
}

var hundred = pacing.NewMoneyFromInt(100).Value
