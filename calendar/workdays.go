/*
workdays.go - Workday counting and year-window calculations

PURPOSE:
  Implements the business-day arithmetic behind all pacing ratios:
  how many workdays a range contains, when an agent's counting clock
  starts, and how a target year splits into elapsed/total/remaining
  workdays.

YEAR POLICY:
  Elapsed workdays depend on where the target year sits relative to
  "today":
    - Past year:    the whole year has elapsed
    - Future year:  nothing has elapsed
    - Current year: elapsed through today, inclusive

EFFECTIVE START:
  No agent's count begins before the company baseline date (the day the
  brokerage adopted pacing), even if the agent was hired earlier. Within
  a target year the window additionally never starts before January 1.

DEGENERATE INPUT:
  Inverted ranges, start dates past year-end, and future years all count
  as zero. None of these are errors.

SEE ALSO:
  - calendar.go: Date and HolidaySet types
*/
package calendar

// =============================================================================
// BUSINESS-DAY COUNTING
// =============================================================================

// CountBusinessDays counts working days in [start, end] inclusive,
// excluding weekends and holidays. An inverted range counts zero days.
//
// Day-by-day iteration is deliberate: windows are at most a year in
// normal operation, and the holiday lookup is O(1) per day.
func CountBusinessDays(start, end Date, holidays HolidaySet) int {
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if holidays.IsWorkday(d) {
			count++
		}
	}
	return count
}

// EffectiveStartDate returns the later of the agent's start date and the
// company baseline date.
func EffectiveStartDate(agentStart, baseline Date) Date {
	return Max(agentStart, baseline)
}

// =============================================================================
// CALENDAR - Standing configuration for year-window calculations
// =============================================================================

// Calendar carries the two standing configuration values every workday
// window needs: the brokerage holiday set and the company baseline date.
type Calendar struct {
	Holidays HolidaySet
	Baseline Date
}

// Window holds the workday split of a target year for one agent.
type Window struct {
	Elapsed   int
	Total     int
	Remaining int
}

// windowStart floors the counting start at January 1 of the target year.
func (c Calendar) windowStart(agentStart Date, year int) Date {
	return Max(EffectiveStartDate(agentStart, c.Baseline), StartOfYear(year))
}

// WorkdaysElapsedYTD counts workdays from the agent's effective start
// (floored at Jan 1 of year) through the year-policy end: Dec 31 for past
// years, today for the current year, nothing for future years.
func (c Calendar) WorkdaysElapsedYTD(agentStart Date, year int, today Date) int {
	switch {
	case year > today.Year():
		return 0
	case year < today.Year():
		return c.TotalWorkdaysInYear(agentStart, year)
	default:
		return CountBusinessDays(c.windowStart(agentStart, year), today, c.Holidays)
	}
}

// TotalWorkdaysInYear counts workdays from the agent's effective start
// (floored at Jan 1) through Dec 31 regardless of today. This is the
// full-year denominator for pacing ratios.
func (c Calendar) TotalWorkdaysInYear(agentStart Date, year int) int {
	return CountBusinessDays(c.windowStart(agentStart, year), EndOfYear(year), c.Holidays)
}

// Window computes the elapsed/total/remaining workday split for a year.
func (c Calendar) Window(agentStart Date, year int, today Date) Window {
	total := c.TotalWorkdaysInYear(agentStart, year)
	elapsed := c.WorkdaysElapsedYTD(agentStart, year, today)
	if elapsed > total {
		elapsed = total
	}
	return Window{Elapsed: elapsed, Total: total, Remaining: total - elapsed}
}

// YearProgress returns elapsed/total in [0,1], or 0 when the agent has no
// workdays in the year at all (effective start past year-end).
func (c Calendar) YearProgress(agentStart Date, year int, today Date) float64 {
	w := c.Window(agentStart, year, today)
	if w.Total == 0 {
		return 0
	}
	return float64(w.Elapsed) / float64(w.Total)
}
