// Package dates implements calendar-day date arithmetic for expiry tracking.
// All comparisons ignore time of day so that clock skew around midnight
// cannot shift an item between "expiring" and "expired".
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Parse converts a YYYY-MM-DD string into a date truncated to midnight UTC.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// Format renders a time as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Truncate strips the time-of-day component, keeping the calendar date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return Truncate(time.Now())
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// IsInPast reports whether date is strictly before today. Today's own date
// is not in the past.
func IsInPast(date, today time.Time) bool {
	return Truncate(date).Before(Truncate(today))
}

// IsWithinDays reports whether today <= date <= today+n, inclusive on both
// ends.
func IsWithinDays(date, today time.Time, n int) bool {
	d := Truncate(date)
	start := Truncate(today)
	end := AddDays(start, n)
	return !d.Before(start) && !d.After(end)
}

// DaysUntil returns the whole number of calendar days from today until date.
// Negative for past dates.
func DaysUntil(date, today time.Time) int {
	diff := Truncate(date).Sub(Truncate(today))
	return int(diff / (24 * time.Hour))
}
