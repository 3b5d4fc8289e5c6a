/*
projection.go - Current-pace projection and catch-up plan

PURPOSE:
  Answers the two questions an agent asks mid-year:
    1. "Where do I land if I keep this pace?" - linear extrapolation of
       YTD actuals over the full-year workday window, with income derived
       by cascading the projected call volume forward.
    2. "What do I owe per day/week/month to still hit my goal?" - the
       remaining per-stage targets spread over remaining time.

PACE REQUIRES ELAPSED TIME:
  With zero elapsed workdays there is no pace to extrapolate.
  ProjectAtCurrentPace returns nil (not an error, not a zero projection)
  so the caller can render "not yet available".

FLOORS:
  Catch-up never reports negative work: income-left and per-stage
  remaining counts floor at zero. An agent ahead on a stage owes nothing
  further there even while behind on income overall.

SEE ALSO:
  - funnel.go: RequiredFunnel and ForwardIncome
  - calendar package: Window computation
*/
package pacing

import (
	"github.com/shopspring/decimal"

	"github.com/warp/pacing-engine/calendar"
)

// =============================================================================
// CURRENT-PACE PROJECTION
// =============================================================================

// PaceProjection is the year-end outcome if the rest of the year performs
// like the elapsed portion.
type PaceProjection struct {
	Targets FunnelTargets
	Income  Money
}

// ProjectAtCurrentPace extrapolates YTD actuals linearly over the year's
// workday window. Returns nil when no workdays have elapsed.
func ProjectAtCurrentPace(ytd YtdActuals, w calendar.Window, a Assumptions) (*PaceProjection, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := ytd.Validate(); err != nil {
		return nil, err
	}
	if w.Elapsed <= 0 {
		return nil, nil
	}

	scale := decimal.NewFromInt(int64(w.Total)).Div(decimal.NewFromInt(int64(w.Elapsed)))

	var targets FunnelTargets
	for _, s := range Stages() {
		projected := decimal.NewFromInt(ytd.Count(s)).Mul(scale)
		targets.SetCount(s, projected.Ceil().IntPart())
	}

	projectedCalls := decimal.NewFromInt(ytd.Calls).Mul(scale)
	return &PaceProjection{
		Targets: targets,
		Income:  ForwardIncome(projectedCalls, a),
	}, nil
}

// =============================================================================
// CATCH-UP PLAN
// =============================================================================

// RemainingTime is the caller-supplied remaining-time denominators.
// Weeks and months may be fractional; all three may be zero at year-end.
type RemainingTime struct {
	Workdays int
	Weeks    float64
	Months   float64
}

// CatchUpMetric is one stage's remaining effort spread over remaining time.
type CatchUpMetric struct {
	Remaining int64
	PerDay    decimal.Decimal
	PerWeek   decimal.Decimal
	PerMonth  decimal.Decimal
}

// CatchUpPlan is the remaining-effort breakdown toward a goal.
type CatchUpPlan struct {
	IncomeLeftToGo Money
	Metrics        map[Stage]CatchUpMetric
}

// BuildCatchUpPlan computes what is still owed per stage to reach the
// goal, spread over the remaining workdays/weeks/months. Each
// denominator is guarded independently: zero remaining time yields zero
// per-period effort, never infinity.
func BuildCatchUpPlan(goal Money, ytd YtdActuals, rem RemainingTime, a Assumptions) (*CatchUpPlan, error) {
	if goal.IsNegative() {
		return nil, &InputError{Field: "income_goal", Reason: "must not be negative"}
	}
	if err := ytd.Validate(); err != nil {
		return nil, err
	}
	required, err := RequiredFunnel(goal, a)
	if err != nil {
		return nil, err
	}

	incomeLeft := goal.Sub(ytd.NetEarned)
	if incomeLeft.IsNegative() {
		incomeLeft = ZeroMoney()
	}

	workdays := decimal.NewFromInt(int64(rem.Workdays))
	weeks := decimal.NewFromFloat(rem.Weeks)
	months := decimal.NewFromFloat(rem.Months)

	metrics := make(map[Stage]CatchUpMetric, len(Stages()))
	for _, s := range Stages() {
		remaining := required.Count(s) - ytd.Count(s)
		if remaining < 0 {
			remaining = 0
		}
		n := decimal.NewFromInt(remaining)
		metrics[s] = CatchUpMetric{
			Remaining: remaining,
			PerDay:    safeRatio(n, workdays),
			PerWeek:   safeRatio(n, weeks),
			PerMonth:  safeRatio(n, months),
		}
	}

	return &CatchUpPlan{IncomeLeftToGo: incomeLeft, Metrics: metrics}, nil
}
