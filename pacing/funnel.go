/*
funnel.go - Backward funnel cascade and target breakdowns

PURPOSE:
  Converts an income goal into required activity counts by walking the
  funnel backward from money to calls, dividing by each conversion rate
  and rounding up at every stage.

ROUNDING POLICY:
  Every stage rounds UP to a whole unit. Partial contracts or calls never
  suffice, so the cascade over-estimates required effort rather than
  under-estimating it. The monthly/daily breakdown repeats the ceiling at
  each step (annual -> monthly -> daily); the two-step rounding yields
  larger numbers than a single division and that is intentional.

SEE ALSO:
  - types.go: Assumptions, FunnelTargets
  - projection.go: Forward pass through the same rates
*/
package pacing

import "github.com/shopspring/decimal"

var twelve = decimal.NewFromInt(12)

// RequiredFunnel converts an income goal into the full activity-count
// stack. Assumptions are validated before any division; a zero goal
// yields an all-zero funnel.
func RequiredFunnel(goal Money, a Assumptions) (FunnelTargets, error) {
	if err := a.Validate(); err != nil {
		return FunnelTargets{}, err
	}
	if goal.IsNegative() {
		return FunnelTargets{}, &InputError{Field: "income_goal", Reason: "must not be negative"}
	}

	var ft FunnelTargets
	ft.Closings = ceilDiv(goal.Value, a.AvgCommission.Value)
	ft.ContractsWritten = ceilDivInt(ft.Closings, a.Rates.ContractToClosing.Value)
	ft.AppointmentsHeld = ceilDivInt(ft.ContractsWritten, a.Rates.AppointmentToContract.Value)
	ft.AppointmentsSet = ceilDivInt(ft.AppointmentsHeld, a.Rates.AppointmentSetToHeld.Value)
	ft.Engagements = ceilDivInt(ft.AppointmentsSet, a.Rates.EngagementToAppointment.Value)
	ft.Calls = ceilDivInt(ft.Engagements, a.Rates.CallToEngagement.Value)
	return ft, nil
}

// MonthlyTargets breaks annual targets into per-month counts,
// ceiling-rounded per stage.
func MonthlyTargets(annual FunnelTargets) FunnelTargets {
	var monthly FunnelTargets
	for _, s := range Stages() {
		monthly.SetCount(s, ceilDivInt(annual.Count(s), twelve))
	}
	return monthly
}

// DailyTargets breaks annual targets into per-workday counts. The
// breakdown goes annual -> monthly -> daily with a ceiling at each step.
func DailyTargets(annual FunnelTargets, workingDaysPerMonth int) (FunnelTargets, error) {
	if workingDaysPerMonth < 1 || workingDaysPerMonth > 31 {
		return FunnelTargets{}, &AssumptionError{Field: "working_days_per_month", Reason: "must be between 1 and 31"}
	}
	days := decimal.NewFromInt(int64(workingDaysPerMonth))
	monthly := MonthlyTargets(annual)

	var daily FunnelTargets
	for _, s := range Stages() {
		daily.SetCount(s, ceilDivInt(monthly.Count(s), days))
	}
	return daily, nil
}

// ForwardIncome runs the cascade forward: a call volume multiplied down
// through the conversion chain to closings, times average commission.
// No intermediate rounding; this is the mathematical inverse of the
// backward cascade (up to the ceiling slack RequiredFunnel introduces).
func ForwardIncome(calls decimal.Decimal, a Assumptions) Money {
	closings := calls.
		Mul(a.Rates.CallToEngagement.Value).
		Mul(a.Rates.EngagementToAppointment.Value).
		Mul(a.Rates.AppointmentSetToHeld.Value).
		Mul(a.Rates.AppointmentToContract.Value).
		Mul(a.Rates.ContractToClosing.Value)
	return Money{Value: closings.Mul(a.AvgCommission.Value)}
}
