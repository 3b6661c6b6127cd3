// Package calendar holds the day-precision date arithmetic shared by the
// leave, attendance and overtime workflows. All values are normalised to
// UTC midnight so that day counts never drift across DST changes.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var ErrInvalidRange = errors.New("invalid date or time range")

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive returns the number of calendar days from start to end,
// counting both ends.
func DaysInclusive(start, end time.Time) (int, error) {
	days := int(DateOnly(end).Sub(DateOnly(start)).Hours()/24) + 1
	if days < 1 {
		return 0, ErrInvalidRange
	}
	return days, nil
}

// Overlaps reports whether the inclusive ranges [aStart, aEnd] and
// [bStart, bEnd] share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOnly(aStart).After(DateOnly(bEnd)) && !DateOnly(aEnd).Before(DateOnly(bStart))
}

// Covers reports whether day falls within [start, end].
func Covers(start, end, day time.Time) bool {
	return Overlaps(start, end, day, day)
}

// MonthWindow returns the first and last day of the given month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// YearWindow returns January 1st and December 31st of year.
func YearWindow(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses an "HH:MM" wall-clock time into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Combine places a wall-clock offset on the given day.
func Combine(day time.Time, clock time.Duration) time.Time {
	return DateOnly(day).Add(clock)
}

// CombineClock parses clock and places it on day.
func CombineClock(day time.Time, clock string) (time.Time, error) {
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return Combine(day, offset), nil
}
