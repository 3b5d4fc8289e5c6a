/*
Package calendar provides business-day arithmetic for pacing calculations.

PURPOSE:
  This package contains the date value types and workday-counting logic
  that every pacing calculation is built on: which calendar days count as
  working days, when an agent's clock starts, and how much of a year has
  elapsed in workday terms.

KEY CONCEPTS IN THIS FILE (calendar.go):
  - Date: A day-granularity calendar date (time-of-day is never relevant)
  - HolidaySet: An immutable set of company holidays with O(1) membership

DESIGN PRINCIPLES:
  1. Purity: Nothing here reads the wall clock. "Today" is always a
     parameter, so every calculation is replayable with fixed dates.
  2. Total functions: Degenerate temporal input (inverted ranges, future
     years, start dates past year-end) resolves to zero, never to an error.
     Callers are UI layers that must always be able to render a number.
  3. Single local calendar: A brokerage operates on one company-wide
     calendar day. Dates are normalized to UTC midnight internally and
     timezone handling is the caller's problem.

USAGE:
  holidays, _ := calendar.NewHolidaySet([]string{"2026-01-01", "2026-07-03"})
  cal := calendar.Calendar{Holidays: holidays, Baseline: calendar.NewDate(2024, time.January, 1)}
  window := cal.Window(hireDate, 2026, today)

SEE ALSO:
  - workdays.go: Workday counting and year-window calculations
  - pacing package: Consumes Window values for projections
*/
package calendar

import (
	"fmt"
	"time"
)

// ISO is the wire format for calendar dates ("YYYY-MM-DD").
const ISO = "2006-01-02"

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

type Date struct {
	t time.Time
}

// NewDate constructs a Date at day granularity.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISO, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// FromTime truncates a timestamp to its calendar date. Callers holding
// stored timestamps must go through this before entering the engine.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.t.Format(ISO) }

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// DaysBetween returns the whole-day distance from one date to another.
// Negative when to precedes from.
func DaysBetween(from, to Date) int { return int(to.t.Sub(from.t).Hours() / 24) }

// Year boundaries
func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// =============================================================================
// HOLIDAY SET - Company holidays with O(1) membership
// =============================================================================

// HolidaySet is an immutable set of holiday dates. Construct it once per
// calculation from the brokerage's configured holiday list.
type HolidaySet struct {
	dates map[string]struct{}
}

// NewHolidaySet builds a set from ISO "YYYY-MM-DD" strings. Malformed
// entries are rejected here, at the boundary, so the counting loop never
// has to re-validate.
func NewHolidaySet(isoDates []string) (HolidaySet, error) {
	dates := make(map[string]struct{}, len(isoDates))
	for _, s := range isoDates {
		if _, err := time.Parse(ISO, s); err != nil {
			return HolidaySet{}, fmt.Errorf("invalid holiday date %q: %w", s, err)
		}
		dates[s] = struct{}{}
	}
	return HolidaySet{dates: dates}, nil
}

// MustHolidaySet is a test/seed helper that panics on malformed input.
func MustHolidaySet(isoDates ...string) HolidaySet {
	hs, err := NewHolidaySet(isoDates)
	if err != nil {
		panic(err)
	}
	return hs
}

// Contains reports whether the date is a configured holiday.
func (hs HolidaySet) Contains(d Date) bool {
	_, ok := hs.dates[d.String()]
	return ok
}

func (hs HolidaySet) Len() int { return len(hs.dates) }

// IsWorkday reports whether the date is a working day: not a weekend and
// not in the holiday set.
func (hs HolidaySet) IsWorkday(d Date) bool {
	return !d.IsWeekend() && !hs.Contains(d)
}
