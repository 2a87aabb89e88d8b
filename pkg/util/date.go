package util

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for scan date ranges.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
	}
	return t, nil
}

// ParseDateDefault parses a date or returns default if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, err := ParseDate(s); err == nil {
		return t
	}
	return def
}

// ValidateDateRange checks both dates parse and start strictly precedes end.
func ValidateDateRange(start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return fmt.Errorf("end_date: %w", err)
	}
	if !s.Before(e) {
		return fmt.Errorf("start_date %s must be before end_date %s", start, end)
	}
	return nil
}

// RangeDays returns the whole-day span of a parsed date range.
func RangeDays(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
