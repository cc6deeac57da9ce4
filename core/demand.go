package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hirecast/core/agg"
	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
)

// BuildSkillDemand compares how often each skill was matched before and after
// the split point of the trailing window. Skills missing from the recent half
// are dropped.
func BuildSkillDemand(apps []schema.ApplicationRecord, now time.Time, s contract.PipelineSettings) (schema.SkillDemandResult, error) {
	windowStart := agg.ReferenceDate(now, agg.Months, s.WindowMonths)
	split := agg.ReferenceDate(now, agg.Months, s.SplitMonths)
	result := schema.SkillDemandResult{
		Skills: []schema.SkillGrowth{},
		Metadata: schema.SkillDemandMetadata{
			Description:   schema.SkillDemandDescription,
			Calculation:   fmt.Sprintf(schema.SkillDemandCalculationFormat, s.SplitMonths, s.WindowMonths-s.SplitMonths),
			Period:        fmt.Sprintf(schema.LastMonthsPeriodFormat, s.WindowMonths),
			SplitTime:     formatTime(split),
			WindowStart:   formatTime(windowStart),
			ReferenceTime: formatTime(now),
		},
	}

	records, err := toSkillRecords(apps, windowStart)
	if err != nil {
		return schema.SkillDemandResult{}, err
	}
	at := func(r schema.SkillRecord) time.Time { return r.At }

	var previous []schema.SkillRecord
	for _, r := range records {
		if r.At.Before(split) {
			previous = append(previous, r)
		}
	}
	prevCounts, prevOrder := agg.SkillCounts(previous)
	recentCounts, recentOrder := agg.SkillCounts(agg.Since(records, at, split))

	// Previous-half skills first, then skills that only appear recently
	order := prevOrder
	for _, skill := range recentOrder {
		if _, ok := prevCounts[skill]; !ok {
			order = append(order, skill)
		}
	}

	growth := make([]schema.SkillGrowth, 0, len(recentCounts))
	for _, skill := range order {
		recent := recentCounts[skill]
		if recent == 0 {
			continue
		}
		rate := algo.GrowthRate(prevCounts[skill], recent)
		growth = append(growth, schema.SkillGrowth{
			Skill:         skill,
			PreviousCount: prevCounts[skill],
			RecentCount:   recent,
			GrowthRate:    int(algo.RoundHalfUp(rate)),
			Trend:         algo.TrendOf(rate),
		})
	}

	result.Skills = algo.RankSkillGrowth(growth, s.DemandTop)
	return result, nil
}
