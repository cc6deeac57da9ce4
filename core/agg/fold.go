package agg

import (
	"sort"
	"time"

	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/schema"
)

// Fold groups items by key and reduces each group with step, starting each
// group from zero(). It is the single aggregation primitive of the pipelines.
func Fold[T, A any](items []T, key func(T) string, zero func() A, step func(A, T) A) map[string]A {
	out := make(map[string]A)
	for _, item := range items {
		k := key(item)
		acc, ok := out[k]
		if !ok {
			acc = zero()
		}
		out[k] = step(acc, item)
	}
	return out
}

// SortedKeys returns the keys of m in ascending order, which is chronological for period keys.
func SortedKeys[A any](m map[string]A) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Since keeps records at or after the cutoff.
func Since[T any](items []T, at func(T) time.Time, cutoff time.Time) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !at(item).Before(cutoff) {
			out = append(out, item)
		}
	}
	return out
}

// MonthlySkillSupply counts, per month, how many applications matched each skill.
func MonthlySkillSupply(records []schema.SkillRecord) map[string]map[string]int {
	return Fold(records,
		func(r schema.SkillRecord) string { return MonthKey(r.At) },
		func() map[string]int { return make(map[string]int) },
		func(acc map[string]int, r schema.SkillRecord) map[string]int {
			for _, skill := range r.Skills {
				acc[skill]++
			}
			return acc
		})
}

// MonthlyQuality tallies quality tiers per month.
func MonthlyQuality(records []schema.QualityRecord) map[string]schema.QualityBucket {
	return Fold(records,
		func(r schema.QualityRecord) string { return MonthKey(r.At) },
		func() schema.QualityBucket { return schema.QualityBucket{} },
		func(acc schema.QualityBucket, r schema.QualityRecord) schema.QualityBucket {
			acc.Add(algo.CategorizeQuality(r.AIScore, r.TestScore))
			return acc
		})
}

// DailyCounts counts records per day.
func DailyCounts(times []time.Time) map[string]int {
	return Fold(times,
		DayKey,
		func() int { return 0 },
		func(acc int, _ time.Time) int { return acc + 1 })
}

// SkillCounts counts how many records matched each skill, remembering the
// order in which skills were first seen.
func SkillCounts(records []schema.SkillRecord) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		for _, skill := range r.Skills {
			if _, ok := counts[skill]; !ok {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}
	return counts, order
}
