package algo

import (
	"math"
	"strings"

	"github.com/guregu/null/v5"
	"github.com/huangsam/hirecast/schema"
)

// Thresholds and caps for derived metrics.
const (
	GapRatioCap      = 99.0
	ExcellentScore   = 80.0
	GoodScore        = 60.0
	NewSkillGrowth   = 100.0
	SkillListDivider = ","
)

// GapRatio is demand over supply, capped at GapRatioCap.
// Zero supply is treated as maximal scarcity.
func GapRatio(demand, supply int) float64 {
	if supply == 0 {
		return GapRatioCap
	}
	return math.Min(GapRatioCap, float64(demand)/float64(supply))
}

// CategorizeQuality places a candidate into a tier using the better of the
// AI score and the optional test score.
func CategorizeQuality(aiScore float64, testScore null.Float) schema.QualityTier {
	best := aiScore
	if testScore.Valid {
		best = math.Max(aiScore, testScore.Float64)
	}
	switch {
	case best >= ExcellentScore:
		return schema.ExcellentTier
	case best >= GoodScore:
		return schema.GoodTier
	default:
		return schema.PoorTier
	}
}

// ParseSkillList splits a comma-separated skill list, trimming whitespace
// and dropping empty tokens. A null or empty value yields no skills.
func ParseSkillList(raw null.String) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	skills := []string{}
	for token := range strings.SplitSeq(raw.String, SkillListDivider) {
		if s := strings.TrimSpace(token); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// UniqueSkills removes repeated skills while keeping first-seen order.
func UniqueSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// GrowthRate is the percentage change from previous to recent.
// A skill with no previous occurrences counts as NewSkillGrowth.
func GrowthRate(previous, recent int) float64 {
	if previous <= 0 {
		return NewSkillGrowth
	}
	return float64(recent-previous) / float64(previous) * 100
}

// TrendOf labels a growth rate.
func TrendOf(growth float64) schema.TrendDirection {
	switch {
	case growth > 0:
		return schema.TrendUp
	case growth < 0:
		return schema.TrendDown
	default:
		return schema.TrendStable
	}
}
