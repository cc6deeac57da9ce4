package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hirecast/core/agg"
	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
)

// BuildSkillGapTrends ranks catalog skills by their average monthly gap ratio
// and forecasts the ratio of the top skills on the same monthly timeline.
func BuildSkillGapTrends(apps []schema.ApplicationRecord, roles []schema.RoleRecord, now time.Time, s contract.PipelineSettings) (schema.SkillGapResult, error) {
	windowStart := agg.ReferenceDate(now, agg.Months, s.WindowMonths)
	result := schema.SkillGapResult{
		Skills:   []string{},
		Rankings: []schema.SkillGapRank{},
		Data:     []schema.SkillGapRow{},
		Metadata: schema.SkillGapMetadata{
			Description:    fmt.Sprintf(schema.SkillGapDescriptionFormat, s.SkillGapTop),
			Calculation:    schema.SkillGapCalculation,
			ForecastPeriod: fmt.Sprintf(schema.MonthsPeriodFormat, s.SkillGapHorizon),
			WindowStart:    formatTime(windowStart),
			ReferenceTime:  formatTime(now),
		},
	}

	records, err := toSkillRecords(apps, windowStart)
	if err != nil {
		return schema.SkillGapResult{}, err
	}

	supply := agg.MonthlySkillSupply(records)
	months := agg.SortedKeys(supply)
	if len(months) == 0 {
		return result, nil
	}

	// Gap ratio series per catalog skill
	demand, order := roleDemand(roles)
	for _, skill := range order {
		if err := schema.ValidateSkillName(skill); err != nil {
			return schema.SkillGapResult{}, fmt.Errorf("%w: %v", schema.ErrProcessing, err)
		}
	}
	series := make(map[string][]algo.TimePoint, len(order))
	ranks := make([]schema.SkillGapRank, 0, len(order))
	for _, skill := range order {
		points := make([]algo.TimePoint, len(months))
		sum := 0.0
		for i, month := range months {
			ratio := algo.GapRatio(demand[skill], supply[month][skill])
			points[i] = algo.TimePoint{Index: i, Value: ratio}
			sum += ratio
		}
		series[skill] = points
		ranks = append(ranks, schema.SkillGapRank{
			Skill:      skill,
			Demand:     demand[skill],
			AverageGap: sum / float64(len(months)),
		})
	}

	top := algo.RankSkillGaps(ranks, s.SkillGapTop)
	for _, rank := range top {
		result.Skills = append(result.Skills, rank.Skill)
	}
	result.Rankings = top

	// Historical rows
	for i, month := range months {
		row := schema.SkillGapRow{Month: month, MonthIndex: i, Actual: make(map[string]float64, len(top))}
		for _, skill := range result.Skills {
			row.Actual[skill] = series[skill][i].Value
		}
		result.Data = append(result.Data, row)
	}

	// Forecast rows share indices across skills, so one row per projected month
	lastIndex := len(months) - 1
	lastMonth := months[lastIndex]
	var forecastRows []schema.SkillGapRow
	for _, skill := range result.Skills {
		for j, p := range algo.Forecast(series[skill], s.SkillGapHorizon) {
			if j == len(forecastRows) {
				month, err := agg.ShiftMonth(lastMonth, p.Index-lastIndex)
				if err != nil {
					return schema.SkillGapResult{}, fmt.Errorf("%w: %v", schema.ErrProcessing, err)
				}
				forecastRows = append(forecastRows, schema.SkillGapRow{
					Month:      month,
					MonthIndex: p.Index,
					IsForecast: true,
					Forecast:   make(map[string]float64, len(result.Skills)),
				})
			}
			forecastRows[j].Forecast[skill] = algo.RoundTo(p.Value, 1)
		}
	}
	result.Data = append(result.Data, forecastRows...)

	return result, nil
}
