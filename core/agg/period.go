// Package agg has time bucketing and aggregation logic for application records.
package agg

import (
	"fmt"
	"strings"
	"time"
)

// Period key layouts. Keys are zero padded so lexicographic order is chronological.
const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
)

// Unit is the calendar unit used when stepping back from a reference time.
type Unit string

// Supported units.
const (
	Months Unit = "months"
	Days   Unit = "days"
)

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	DayLayout,
}

// MonthKey returns the YYYY-MM bucket of t in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// DayKey returns the YYYY-MM-DD bucket of t in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ReferenceDate returns now minus amount units. Month arithmetic follows
// time.AddDate, so day overflow normalizes into the following month.
func ReferenceDate(now time.Time, unit Unit, amount int) time.Time {
	switch unit {
	case Days:
		return now.AddDate(0, 0, -amount)
	default:
		return now.AddDate(0, -amount, 0)
	}
}

// ParseTimestamp parses the timestamp formats emitted by the supported record stores.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ShiftMonth moves a YYYY-MM key by n months.
func ShiftMonth(key string, n int) (string, error) {
	t, err := time.Parse(MonthLayout, key)
	if err != nil {
		return "", fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t.AddDate(0, n, 0).Format(MonthLayout), nil
}

// ShiftDay moves a YYYY-MM-DD key by n days.
func ShiftDay(key string, n int) (string, error) {
	t, err := time.Parse(DayLayout, key)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t.AddDate(0, 0, n).Format(DayLayout), nil
}

// DayRange lists every day key from first to last inclusive.
func DayRange(first, last string) ([]string, error) {
	start, err := time.Parse(DayLayout, first)
	if err != nil {
		return nil, fmt.Errorf("invalid day key %q: %w", first, err)
	}
	end, err := time.Parse(DayLayout, last)
	if err != nil {
		return nil, fmt.Errorf("invalid day key %q: %w", last, err)
	}
	var keys []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(DayLayout))
	}
	return keys, nil
}
