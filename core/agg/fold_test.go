package agg

import (
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/huangsam/hirecast/schema"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestFold(t *testing.T) {
	words := []string{"apple", "avocado", "banana", "blueberry", "cherry"}
	lengths := Fold(words,
		func(w string) string { return w[:1] },
		func() int { return 0 },
		func(acc int, w string) int { return acc + len(w) })

	assert.Equal(t, map[string]int{"a": 12, "b": 15, "c": 6}, lengths)
}

func TestSince(t *testing.T) {
	times := []time.Time{day(2024, 1, 1), day(2024, 2, 1), day(2024, 3, 1)}
	got := Since(times, func(t time.Time) time.Time { return t }, day(2024, 2, 1))
	assert.Equal(t, []time.Time{day(2024, 2, 1), day(2024, 3, 1)}, got)
}

func TestMonthlySkillSupply(t *testing.T) {
	records := []schema.SkillRecord{
		{At: day(2024, 1, 3), Skills: []string{"Go", "SQL"}},
		{At: day(2024, 1, 20), Skills: []string{"Go"}},
		{At: day(2024, 2, 2), Skills: []string{}},
		{At: day(2024, 2, 9), Skills: []string{"Docker"}},
	}

	supply := MonthlySkillSupply(records)

	assert.Equal(t, map[string]int{"Go": 2, "SQL": 1}, supply["2024-01"])
	assert.Equal(t, map[string]int{"Docker": 1}, supply["2024-02"])
	assert.Equal(t, []string{"2024-01", "2024-02"}, SortedKeys(supply))
}

func TestMonthlyQuality(t *testing.T) {
	records := []schema.QualityRecord{
		{At: day(2024, 1, 1), AIScore: 85},
		{At: day(2024, 1, 2), AIScore: 55, TestScore: null.FloatFrom(70)},
		{At: day(2024, 1, 3), AIScore: 30},
		{At: day(2024, 2, 1), AIScore: 90},
	}

	buckets := MonthlyQuality(records)

	assert.Equal(t, schema.QualityBucket{Excellent: 1, Good: 1, Poor: 1, Total: 3}, buckets["2024-01"])
	assert.Equal(t, schema.QualityBucket{Excellent: 1, Total: 1}, buckets["2024-02"])
}

func TestDailyCounts(t *testing.T) {
	times := []time.Time{day(2024, 1, 1), day(2024, 1, 1), day(2024, 1, 3)}
	assert.Equal(t, map[string]int{"2024-01-01": 2, "2024-01-03": 1}, DailyCounts(times))
}

func TestSkillCounts(t *testing.T) {
	records := []schema.SkillRecord{
		{Skills: []string{"SQL", "Go"}},
		{Skills: []string{"Go", "Rust"}},
	}
	counts, order := SkillCounts(records)
	assert.Equal(t, map[string]int{"SQL": 1, "Go": 2, "Rust": 1}, counts)
	assert.Equal(t, []string{"SQL", "Go", "Rust"}, order)
}
