package algo

import (
	"sort"

	"github.com/huangsam/hirecast/schema"
)

// RankSkillGaps sorts skills by average gap ratio in descending order and
// returns the top 'limit' entries. Ties keep their input order.
func RankSkillGaps(ranks []schema.SkillGapRank, limit int) []schema.SkillGapRank {
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].AverageGap > ranks[j].AverageGap
	})
	if limit >= 0 && len(ranks) > limit {
		return ranks[:limit]
	}
	return ranks
}

// RankSkillGrowth sorts skills by rounded growth rate in descending order and
// returns the top 'limit' entries. Ties keep their input order.
func RankSkillGrowth(growth []schema.SkillGrowth, limit int) []schema.SkillGrowth {
	sort.SliceStable(growth, func(i, j int) bool {
		return growth[i].GrowthRate > growth[j].GrowthRate
	})
	if limit >= 0 && len(growth) > limit {
		return growth[:limit]
	}
	return growth
}
