package util

import (
	"time"
)

// NavDateLayout is the date format used by the fund NAV feed (e.g. "27-08-2026").
const NavDateLayout = "02-01-2006"

// ParseNavDate parses a DD-MM-YYYY date from the NAV feed. Returns (t, true) if it worked.
func ParseNavDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(NavDateLayout, s); err == nil {
		return t, true
	}
	// Some feeds emit ISO dates for older records.
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseNavDateDefault parses a NAV date or returns default if empty/invalid.
func ParseNavDateDefault(s string, def time.Time) time.Time {
	if t, ok := ParseNavDate(s); ok {
		return t
	}
	return def
}

// YearsAgo returns the date n years before now, truncated to a day.
func YearsAgo(now time.Time, n int) time.Time {
	return now.AddDate(-n, 0, 0).Truncate(24 * time.Hour)
}
