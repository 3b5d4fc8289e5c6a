/*
Package pacing implements the funnel cascade and pace projection engine.

PURPOSE:
  This package converts an annual income goal into the stack of required
  prospecting activity (the funnel cascade), projects year-end outcomes
  from year-to-date actuals, and computes the catch-up effort needed to
  still reach a goal from today forward.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A dollar amount (decimal-backed, never float)
  - Rate: A conversion probability in (0,1], distinct from Money and from
    the 0-100 percentages shown in forms
  - Assumptions: Commission, working days, and the conversion-rate chain
  - FunnelTargets: Required (or projected) activity counts per stage
  - YtdActuals: Observed counts so far this year, read-only input

FUNNEL CONVENTION:
  Six stages with an explicit set-to-held rate:

    calls -> engagements -> appointments set -> appointments held
          -> contracts written -> closings

  Each Rate is the forward probability that a unit of stage N becomes a
  unit of stage N+1. The cascade divides by these rates walking backward
  from money to calls.

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all money and rate arithmetic
  2. Semantic types: a Rate cannot be passed where Money is expected, and
     the percent/decimal conversion lives at the boundary (factory), not here
  3. Validation first: Assumptions.Validate runs before any division

SEE ALSO:
  - funnel.go: Backward cascade and daily-target breakdown
  - projection.go: Current-pace projection and catch-up plan
  - errors.go: Validation error types
*/
package pacing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Dollar amount (single currency, whole dollars typical)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(v float64) Money      { return Money{Value: decimal.NewFromFloat(v)} }
func NewMoneyFromInt(v int64) Money { return Money{Value: decimal.NewFromInt(v)} }
func ZeroMoney() Money              { return Money{Value: decimal.Zero} }

// ParseMoney parses a decimal string into Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{Value: d}, nil
}

func (m Money) Add(b Money) Money          { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money          { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool   { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool      { return m.Value.LessThan(b.Value) }
func (m Money) Equal(b Money) bool         { return m.Value.Equal(b.Value) }
func (m Money) Float64() float64           { f, _ := m.Value.Float64(); return f }
func (m Money) String() string             { return m.Value.String() }

// =============================================================================
// RATE - Forward conversion probability in (0,1]
// =============================================================================

type Rate struct {
	Value decimal.Decimal
}

func NewRate(v float64) Rate { return Rate{Value: decimal.NewFromFloat(v)} }

// InRange reports whether the rate is a usable probability: 0 < r <= 1.
func (r Rate) InRange() bool {
	return r.Value.IsPositive() && r.Value.LessThanOrEqual(decimal.NewFromInt(1))
}

func (r Rate) Float64() float64 { f, _ := r.Value.Float64(); return f }

// =============================================================================
// ASSUMPTIONS - Commission, working days, conversion chain
// =============================================================================

// ConversionRates is the forward-probability chain linking the six funnel
// stages. Every field must be in (0,1].
type ConversionRates struct {
	CallToEngagement        Rate
	EngagementToAppointment Rate
	AppointmentSetToHeld    Rate
	AppointmentToContract   Rate
	ContractToClosing       Rate
}

type Assumptions struct {
	AvgCommission       Money
	WorkingDaysPerMonth int
	Rates               ConversionRates
}

// Validate checks every assumption before the cascade divides by it.
// Returns an AssumptionError naming the first field that fails.
func (a Assumptions) Validate() error {
	if !a.AvgCommission.IsPositive() {
		return &AssumptionError{Field: "avg_commission", Reason: "must be positive"}
	}
	if a.WorkingDaysPerMonth < 1 || a.WorkingDaysPerMonth > 31 {
		return &AssumptionError{Field: "working_days_per_month", Reason: "must be between 1 and 31"}
	}
	rates := []struct {
		field string
		rate  Rate
	}{
		{"call_to_engagement", a.Rates.CallToEngagement},
		{"engagement_to_appointment", a.Rates.EngagementToAppointment},
		{"appointment_set_to_held", a.Rates.AppointmentSetToHeld},
		{"appointment_to_contract", a.Rates.AppointmentToContract},
		{"contract_to_closing", a.Rates.ContractToClosing},
	}
	for _, r := range rates {
		if !r.rate.InRange() {
			return &AssumptionError{Field: r.field, Reason: "must be a probability in (0,1]"}
		}
	}
	return nil
}

// =============================================================================
// FUNNEL STAGES
// =============================================================================

type Stage string

const (
	StageCalls            Stage = "calls"
	StageEngagements      Stage = "engagements"
	StageAppointmentsSet  Stage = "appointments_set"
	StageAppointmentsHeld Stage = "appointments_held"
	StageContractsWritten Stage = "contracts_written"
	StageClosings         Stage = "closings"
)

// Stages returns all stages in funnel order, top (calls) to bottom (closings).
func Stages() []Stage {
	return []Stage{
		StageCalls,
		StageEngagements,
		StageAppointmentsSet,
		StageAppointmentsHeld,
		StageContractsWritten,
		StageClosings,
	}
}

// FunnelTargets holds one activity count per stage. Counts are whole
// units, ceiling-rounded: partial calls or contracts never suffice.
type FunnelTargets struct {
	Calls            int64
	Engagements      int64
	AppointmentsSet  int64
	AppointmentsHeld int64
	ContractsWritten int64
	Closings         int64
}

func (ft FunnelTargets) Count(s Stage) int64 {
	switch s {
	case StageCalls:
		return ft.Calls
	case StageEngagements:
		return ft.Engagements
	case StageAppointmentsSet:
		return ft.AppointmentsSet
	case StageAppointmentsHeld:
		return ft.AppointmentsHeld
	case StageContractsWritten:
		return ft.ContractsWritten
	case StageClosings:
		return ft.Closings
	default:
		return 0
	}
}

func (ft *FunnelTargets) SetCount(s Stage, n int64) {
	switch s {
	case StageCalls:
		ft.Calls = n
	case StageEngagements:
		ft.Engagements = n
	case StageAppointmentsSet:
		ft.AppointmentsSet = n
	case StageAppointmentsHeld:
		ft.AppointmentsHeld = n
	case StageContractsWritten:
		ft.ContractsWritten = n
	case StageClosings:
		ft.Closings = n
	}
}

// =============================================================================
// YTD ACTUALS - Observed counts so far this year
// =============================================================================

// YtdActuals is what the agent has actually logged this year. It is
// produced by the activity-logging layer and is read-only input here.
type YtdActuals struct {
	Calls            int64
	Engagements      int64
	AppointmentsSet  int64
	AppointmentsHeld int64
	ContractsWritten int64
	Closings         int64
	NetEarned        Money
}

func (y YtdActuals) Count(s Stage) int64 {
	return FunnelTargets{
		Calls:            y.Calls,
		Engagements:      y.Engagements,
		AppointmentsSet:  y.AppointmentsSet,
		AppointmentsHeld: y.AppointmentsHeld,
		ContractsWritten: y.ContractsWritten,
		Closings:         y.Closings,
	}.Count(s)
}

// Validate rejects negative counts and negative earnings at the boundary.
func (y YtdActuals) Validate() error {
	for _, s := range Stages() {
		if y.Count(s) < 0 {
			return &InputError{Field: string(s), Reason: "count must not be negative"}
		}
	}
	if y.NetEarned.IsNegative() {
		return &InputError{Field: "net_earned", Reason: "must not be negative"}
	}
	return nil
}

// =============================================================================
// PLAN - An agent's business plan for one year
// =============================================================================

type Plan struct {
	Year        int
	IncomeGoal  Money
	Assumptions Assumptions
}
