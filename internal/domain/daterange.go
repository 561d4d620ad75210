package domain

import "time"

// Named date ranges accepted by review filters and analytics queries. The
// empty string means "all time".
const (
	DateRangeAll     = ""
	DateRangeToday   = "today"
	DateRangeWeek    = "week"
	DateRangeMonth   = "month"
	DateRangeQuarter = "quarter"
	DateRangeYear    = "year"
)

// dateRangeWindows maps each named range to its lookback duration.
var dateRangeWindows = map[string]time.Duration{
	DateRangeToday:   24 * time.Hour,
	DateRangeWeek:    7 * 24 * time.Hour,
	DateRangeMonth:   30 * 24 * time.Hour,
	DateRangeQuarter: 90 * 24 * time.Hour,
	DateRangeYear:    365 * 24 * time.Hour,
}

// ValidDateRanges returns all valid named date ranges, excluding the
// all-time empty value.
func ValidDateRanges() []string {
	return []string{DateRangeToday, DateRangeWeek, DateRangeMonth, DateRangeQuarter, DateRangeYear}
}

// IsValidDateRange checks if the given range is valid. The empty string is
// accepted and means no time bound.
func IsValidDateRange(r string) bool {
	if r == DateRangeAll {
		return true
	}
	_, ok := dateRangeWindows[r]
	return ok
}

// DateRangeStart returns the inclusive lower bound of the half-open window
// [now-lookback, now) for a named range. The second return value is false
// for the all-time range, meaning no lower bound applies.
func DateRangeStart(r string, now time.Time) (time.Time, bool) {
	window, ok := dateRangeWindows[r]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(-window), true
}

// InDateRange reports whether t falls inside the half-open window for the
// named range ending at now. The all-time range matches everything up to
// but excluding now.
func InDateRange(r string, t, now time.Time) bool {
	if t.After(now) || t.Equal(now) {
		return false
	}
	start, bounded := DateRangeStart(r, now)
	if !bounded {
		return true
	}
	return !t.Before(start)
}
