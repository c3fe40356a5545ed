package dates

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := Parse(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return d
}

func TestParseRejectsMalformedDates(t *testing.T) {
	for _, in := range []string{"", "2024-13-01", "01-02-2024", "2024/01/02", "not-a-date"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	d := mustParse(t, "2024-01-06")
	if Format(d) != "2024-01-06" {
		t.Fatalf("round trip produced %q", Format(d))
	}
}

func TestIsInPastTodayIsNotPast(t *testing.T) {
	today := mustParse(t, "2024-06-15")
	if IsInPast(today, today) {
		t.Fatal("today must not be in the past")
	}
	if !IsInPast(mustParse(t, "2024-06-14"), today) {
		t.Fatal("yesterday must be in the past")
	}
	if IsInPast(mustParse(t, "2024-06-16"), today) {
		t.Fatal("tomorrow must not be in the past")
	}
}

func TestIsInPastIgnoresTimeOfDay(t *testing.T) {
	// 23:59 on the same calendar day as "today" is still not past,
	// regardless of the wall-clock component.
	today := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	sameDay := time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC)
	if IsInPast(sameDay, today) {
		t.Fatal("same calendar day must not be in the past")
	}
	justBeforeMidnight := time.Date(2024, 6, 14, 23, 59, 59, 0, time.UTC)
	if !IsInPast(justBeforeMidnight, today) {
		t.Fatal("previous calendar day must be in the past")
	}
}

func TestIsWithinDaysInclusiveBounds(t *testing.T) {
	today := mustParse(t, "2024-06-15")
	if !IsWithinDays(today, today, 3) {
		t.Fatal("today is within the window")
	}
	if !IsWithinDays(AddDays(today, 3), today, 3) {
		t.Fatal("today+3 is within a 3-day window (inclusive boundary)")
	}
	if IsWithinDays(AddDays(today, 4), today, 3) {
		t.Fatal("today+4 is outside a 3-day window")
	}
	if IsWithinDays(AddDays(today, -1), today, 3) {
		t.Fatal("yesterday is outside the window")
	}
}

func TestDaysUntil(t *testing.T) {
	today := mustParse(t, "2024-06-15")
	cases := []struct {
		date string
		want int
	}{
		{"2024-06-15", 0},
		{"2024-06-16", 1},
		{"2024-06-17", 2},
		{"2024-06-14", -1},
		{"2024-07-15", 30},
	}
	for _, tc := range cases {
		if got := DaysUntil(mustParse(t, tc.date), today); got != tc.want {
			t.Fatalf("DaysUntil(%s): got %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	// Late evening today vs early morning tomorrow is still one whole day.
	today := time.Date(2024, 6, 15, 22, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 6, 16, 1, 0, 0, 0, time.UTC)
	if got := DaysUntil(tomorrow, today); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
}

func TestAddDaysCrossesMonthBoundary(t *testing.T) {
	d := AddDays(mustParse(t, "2024-01-01"), 5)
	if Format(d) != "2024-01-06" {
		t.Fatalf("expected 2024-01-06, got %s", Format(d))
	}
	d = AddDays(mustParse(t, "2024-01-30"), 5)
	if Format(d) != "2024-02-04" {
		t.Fatalf("expected 2024-02-04, got %s", Format(d))
	}
}
