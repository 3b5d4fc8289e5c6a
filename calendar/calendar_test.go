package calendar_test

import (
	"testing"
	"time"

	"github.com/warp/pacing-engine/calendar"
)

func TestParseDate_Valid(t *testing.T) {
	d, err := calendar.ParseDate("2026-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 2 {
		t.Errorf("expected 2026-03-02, got %s", d)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{"03/02/2026", "2026-3-2", "not-a-date", ""} {
		if _, err := calendar.ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestFromTime_TruncatesClock(t *testing.T) {
	ts := time.Date(2026, time.March, 2, 23, 15, 0, 0, time.UTC)
	d := calendar.FromTime(ts)
	if d.String() != "2026-03-02" {
		t.Errorf("expected 2026-03-02, got %s", d)
	}
}

func TestNewHolidaySet_RejectsMalformedDates(t *testing.T) {
	if _, err := calendar.NewHolidaySet([]string{"2026-01-01", "July 4th"}); err == nil {
		t.Error("expected error for malformed holiday date")
	}
}

func TestHolidaySet_Membership(t *testing.T) {
	hs := calendar.MustHolidaySet("2026-07-03", "2026-12-25")

	if !hs.Contains(calendar.NewDate(2026, time.July, 3)) {
		t.Error("expected 2026-07-03 to be a holiday")
	}
	if hs.Contains(calendar.NewDate(2026, time.July, 4)) {
		t.Error("did not expect 2026-07-04 to be a holiday")
	}
	if hs.Len() != 2 {
		t.Errorf("expected 2 holidays, got %d", hs.Len())
	}
}

func TestIsWorkday(t *testing.T) {
	hs := calendar.MustHolidaySet("2026-01-01")

	cases := []struct {
		date string
		want bool
	}{
		{"2026-01-01", false}, // Thursday, but a holiday
		{"2026-01-02", true},  // Friday
		{"2026-01-03", false}, // Saturday
		{"2026-01-04", false}, // Sunday
		{"2026-01-05", true},  // Monday
	}
	for _, tc := range cases {
		d, err := calendar.ParseDate(tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := hs.IsWorkday(d); got != tc.want {
			t.Errorf("IsWorkday(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := calendar.NewDate(2026, time.January, 1)
	b := calendar.NewDate(2026, time.January, 31)

	if got := calendar.DaysBetween(a, b); got != 30 {
		t.Errorf("expected 30 days, got %d", got)
	}
	if got := calendar.DaysBetween(b, a); got != -30 {
		t.Errorf("expected -30 days, got %d", got)
	}
}
