package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hirecast/core/agg"
	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
)

// qualityMix is the share of each tier over the most recent months.
type qualityMix struct {
	excellent, good, poor float64
}

// recentMix computes tier ratios over the last n buckets. Buckets are never empty.
func recentMix(buckets []schema.QualityBucket, n int) qualityMix {
	if n > len(buckets) {
		n = len(buckets)
	}
	var excellent, good, poor, total int
	for _, b := range buckets[len(buckets)-n:] {
		excellent += b.Excellent
		good += b.Good
		poor += b.Poor
		total += b.Total
	}
	if total == 0 {
		return qualityMix{}
	}
	t := float64(total)
	return qualityMix{excellent: float64(excellent) / t, good: float64(good) / t, poor: float64(poor) / t}
}

// share applies a ratio to a count, rounding half up.
func share(total, ratio float64) int {
	return int(algo.RoundHalfUp(total * ratio))
}

// BuildQualityDistribution tallies candidate tiers per month and appends forecast
// buckets. Only the monthly total is forecast; it is split by the recent tier mix.
func BuildQualityDistribution(apps []schema.ApplicationRecord, now time.Time, s contract.PipelineSettings) (schema.QualityDistributionResult, error) {
	windowStart := agg.ReferenceDate(now, agg.Months, s.WindowMonths)
	forecastPeriod := schema.SingleMonthPeriod
	if s.QualityHorizon != 1 {
		forecastPeriod = fmt.Sprintf(schema.MonthsPeriodFormat, s.QualityHorizon)
	}
	result := schema.QualityDistributionResult{
		Data: []schema.QualityBucket{},
		Metadata: schema.QualityMetadata{
			Description: schema.QualityDescription,
			Categories: schema.QualityCategories{
				Excellent: schema.ExcellentCategory,
				Good:      schema.GoodCategory,
				Poor:      schema.PoorCategory,
			},
			ForecastPeriod: forecastPeriod,
			WindowStart:    formatTime(windowStart),
			ReferenceTime:  formatTime(now),
		},
	}

	records, err := toQualityRecords(apps, windowStart)
	if err != nil {
		return schema.QualityDistributionResult{}, err
	}

	monthly := agg.MonthlyQuality(records)
	months := agg.SortedKeys(monthly)
	if len(months) == 0 {
		return result, nil
	}

	totals := make([]algo.TimePoint, 0, len(months))
	for i, month := range months {
		b := monthly[month]
		b.Month = month
		b.MonthIndex = i
		result.Data = append(result.Data, b)
		totals = append(totals, algo.TimePoint{Index: i, Value: float64(b.Total)})
	}

	mix := recentMix(result.Data, s.QualityRecentMonths)
	result.CurrentDistribution = schema.QualityShares{
		Excellent: share(100, mix.excellent),
		Good:      share(100, mix.good),
		Poor:      share(100, mix.poor),
	}

	lastIndex := len(months) - 1
	for _, p := range algo.Forecast(totals, s.QualityHorizon) {
		month, err := agg.ShiftMonth(months[lastIndex], p.Index-lastIndex)
		if err != nil {
			return schema.QualityDistributionResult{}, fmt.Errorf("%w: %v", schema.ErrProcessing, err)
		}
		result.Data = append(result.Data, schema.QualityBucket{
			Month:      month,
			MonthIndex: p.Index,
			Excellent:  share(p.Value, mix.excellent),
			Good:       share(p.Value, mix.good),
			Poor:       share(p.Value, mix.poor),
			Total:      int(p.Value),
			IsForecast: true,
		})
	}

	return result, nil
}
