package contract

import (
	"testing"
	"time"
)

// FuzzParseReferenceTime fuzzes the --now parser with random inputs.
func FuzzParseReferenceTime(f *testing.F) {
	seeds := []string{
		"2024-06-15T12:00:00Z",
		"2024-06-15T12:00:00+02:00",
		"1 year ago",
		"2 months ago",
		"3 weeks ago",
		"0 days ago", // edge case
		"99999999999999999999 days ago",
		"yesterday",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	f.Fuzz(func(t *testing.T, input string) {
		got, err := ParseReferenceTime(input, now)
		if err == nil && got.Location() != time.UTC {
			t.Errorf("ParseReferenceTime(%q) returned non-UTC time %v", input, got)
		}
	})
}
