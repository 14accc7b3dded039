package core

import (
	"strings"
	"time"
)

// dateLayouts are the formats observed across ERP endpoints. The backend
// mixes dash and slash separators and sometimes returns full timestamps.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02-01-2006",
}

// ParseDate parses a backend date string, tolerating the separator and
// timestamp variants the ERP produces. The result is truncated to the
// calendar day at midnight local time. An unparseable or empty input
// returns the zero Date, which callers treat as "no date" rather than an
// error.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day())
		}
	}
	return Date{}
}

// StartOfDay truncates t to midnight local time. Due-window comparisons
// are calendar-day comparisons, so "today" always means start of day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
