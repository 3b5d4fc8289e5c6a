/*
workdays_test.go - Behavior tests for workday counting

These tests pin the calendar policies the pacing ratios depend on:
weekend/holiday exclusion, the baseline floor on start dates, and the
year-relative elapsed/total split. Fixed dates throughout; nothing here
reads the clock.
*/
package calendar_test

import (
	"testing"
	"time"

	"github.com/warp/pacing-engine/calendar"
)

var noHolidays = calendar.MustHolidaySet()

func date(s string) calendar.Date {
	d, err := calendar.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// BUSINESS-DAY COUNTING
// =============================================================================

func TestCountBusinessDays_AnySevenDayRangeHasFiveWorkdays(t *testing.T) {
	// GIVEN: Any 7-consecutive-day range with no holidays
	// THEN: Exactly 5 workdays, regardless of the starting weekday

	// 2026-03-01 is a Sunday; offsets cover every starting weekday.
	base := calendar.NewDate(2026, time.March, 1)
	for offset := 0; offset < 7; offset++ {
		start := base.AddDays(offset)
		end := start.AddDays(6)
		if got := calendar.CountBusinessDays(start, end, noHolidays); got != 5 {
			t.Errorf("range starting %s (%s): expected 5 workdays, got %d",
				start, start.Weekday(), got)
		}
	}
}

func TestCountBusinessDays_WeekdayHolidayReducesCountByOne(t *testing.T) {
	// GIVEN: Mon 2026-03-02 .. Fri 2026-03-06, a full working week
	start, end := date("2026-03-02"), date("2026-03-06")
	if got := calendar.CountBusinessDays(start, end, noHolidays); got != 5 {
		t.Fatalf("baseline: expected 5 workdays, got %d", got)
	}

	// WHEN: Wednesday becomes a holiday
	// THEN: Count drops by exactly 1
	withWednesday := calendar.MustHolidaySet("2026-03-04")
	if got := calendar.CountBusinessDays(start, end, withWednesday); got != 4 {
		t.Errorf("expected 4 workdays with Wednesday holiday, got %d", got)
	}
}

func TestCountBusinessDays_WeekendHolidayChangesNothing(t *testing.T) {
	// GIVEN: A range containing Sat 2026-03-07
	start, end := date("2026-03-02"), date("2026-03-08")

	// WHEN: The Saturday is also declared a holiday
	// THEN: Count is unchanged (it was never a workday)
	withSaturday := calendar.MustHolidaySet("2026-03-07")
	plain := calendar.CountBusinessDays(start, end, noHolidays)
	holiday := calendar.CountBusinessDays(start, end, withSaturday)
	if plain != holiday {
		t.Errorf("weekend holiday changed count: %d vs %d", plain, holiday)
	}
}

func TestCountBusinessDays_InvertedRangeIsZero(t *testing.T) {
	// Inverted ranges are a routine artifact of boundary logic, not an error.
	if got := calendar.CountBusinessDays(date("2026-03-10"), date("2026-03-01"), noHolidays); got != 0 {
		t.Errorf("expected 0 for inverted range, got %d", got)
	}
}

func TestCountBusinessDays_SingleDay(t *testing.T) {
	if got := calendar.CountBusinessDays(date("2026-03-02"), date("2026-03-02"), noHolidays); got != 1 {
		t.Errorf("expected 1 for single Monday, got %d", got)
	}
	if got := calendar.CountBusinessDays(date("2026-03-07"), date("2026-03-07"), noHolidays); got != 0 {
		t.Errorf("expected 0 for single Saturday, got %d", got)
	}
}

func TestEffectiveStartDate_BaselineFloor(t *testing.T) {
	// GIVEN: An agent hired years before the brokerage adopted pacing
	// THEN: Counting starts at the baseline, never earlier
	got := calendar.EffectiveStartDate(date("2020-01-01"), date("2026-01-05"))
	if !got.Equal(date("2026-01-05")) {
		t.Errorf("expected 2026-01-05, got %s", got)
	}

	// A later hire keeps their own start date.
	got = calendar.EffectiveStartDate(date("2026-06-01"), date("2026-01-05"))
	if !got.Equal(date("2026-06-01")) {
		t.Errorf("expected 2026-06-01, got %s", got)
	}
}

// =============================================================================
// YEAR WINDOWS
// =============================================================================

func newCalendar(holidays calendar.HolidaySet) calendar.Calendar {
	return calendar.Calendar{Holidays: holidays, Baseline: date("2024-01-01")}
}

func TestWorkdaysElapsedYTD_CurrentYear(t *testing.T) {
	// GIVEN: Agent started Mon 2026-01-05, today is Fri 2026-01-09
	cal := newCalendar(noHolidays)
	got := cal.WorkdaysElapsedYTD(date("2026-01-05"), 2026, date("2026-01-09"))
	if got != 5 {
		t.Errorf("expected 5 elapsed workdays, got %d", got)
	}
}

func TestWorkdaysElapsedYTD_CurrentYearWithHoliday(t *testing.T) {
	cal := newCalendar(calendar.MustHolidaySet("2026-01-07"))
	got := cal.WorkdaysElapsedYTD(date("2026-01-05"), 2026, date("2026-01-09"))
	if got != 4 {
		t.Errorf("expected 4 elapsed workdays with midweek holiday, got %d", got)
	}
}

func TestWorkdaysElapsedYTD_PastYearIsFullYear(t *testing.T) {
	// 2025 has 261 weekdays (Jan 1 is a Wednesday).
	cal := newCalendar(noHolidays)
	got := cal.WorkdaysElapsedYTD(date("2024-01-01"), 2025, date("2026-06-15"))
	if got != 261 {
		t.Errorf("expected all 261 weekdays of 2025, got %d", got)
	}
}

func TestWorkdaysElapsedYTD_FutureYearIsZero(t *testing.T) {
	cal := newCalendar(noHolidays)
	if got := cal.WorkdaysElapsedYTD(date("2024-01-01"), 2027, date("2026-06-15")); got != 0 {
		t.Errorf("expected 0 for future year, got %d", got)
	}
}

func TestWorkdaysElapsedYTD_StartFlooredAtJanFirst(t *testing.T) {
	// An agent effective since 2024 doesn't accumulate 2024-2025 days
	// into a 2026 window.
	cal := newCalendar(noHolidays)
	got := cal.WorkdaysElapsedYTD(date("2024-03-15"), 2026, date("2026-01-09"))
	// Jan 1 2026 is a Thursday: Thu, Fri, Mon..Fri = 7 workdays.
	if got != 7 {
		t.Errorf("expected 7 elapsed workdays from Jan 1, got %d", got)
	}
}

func TestTotalWorkdaysInYear_IgnoresToday(t *testing.T) {
	// The full-year denominator is the same whether asked in January or June.
	cal := newCalendar(noHolidays)
	got := cal.TotalWorkdaysInYear(date("2024-01-01"), 2025)
	if got != 261 {
		t.Errorf("expected 261 weekday total for 2025, got %d", got)
	}
}

func TestWindow_SplitsTotalIntoElapsedAndRemaining(t *testing.T) {
	cal := newCalendar(noHolidays)
	w := cal.Window(date("2026-01-05"), 2026, date("2026-01-09"))

	if w.Elapsed != 5 {
		t.Errorf("expected 5 elapsed, got %d", w.Elapsed)
	}
	if w.Elapsed+w.Remaining != w.Total {
		t.Errorf("window does not add up: %+v", w)
	}
	if w.Remaining < 0 {
		t.Errorf("negative remaining: %+v", w)
	}
}

func TestYearProgress_Bounds(t *testing.T) {
	cal := newCalendar(noHolidays)
	cases := []struct {
		name  string
		start string
		year  int
		today string
	}{
		{"mid-year", "2026-01-05", 2026, "2026-06-15"},
		{"first day", "2026-01-05", 2026, "2026-01-05"},
		{"past year", "2024-01-01", 2025, "2026-06-15"},
		{"future year", "2024-01-01", 2027, "2026-06-15"},
		{"late hire", "2026-12-28", 2026, "2026-12-31"},
	}
	for _, tc := range cases {
		p := cal.YearProgress(date(tc.start), tc.year, date(tc.today))
		if p < 0 || p > 1 {
			t.Errorf("%s: progress %f out of [0,1]", tc.name, p)
		}
	}
}

func TestYearProgress_ZeroWhenNoWorkdaysInYear(t *testing.T) {
	// GIVEN: An agent whose effective start is after year-end
	// THEN: Progress is 0, not a division error
	cal := newCalendar(noHolidays)
	if p := cal.YearProgress(date("2027-02-01"), 2026, date("2026-06-15")); p != 0 {
		t.Errorf("expected 0 progress, got %f", p)
	}
}

func TestYearProgress_FullForPastYear(t *testing.T) {
	cal := newCalendar(noHolidays)
	if p := cal.YearProgress(date("2024-01-01"), 2025, date("2026-06-15")); p != 1 {
		t.Errorf("expected progress 1 for past year, got %f", p)
	}
}
