package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hirecast/core/agg"
	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
)

// BuildApplicationForecast counts applications per day over the trailing window
// and projects the daily count forward. Days without applications are skipped
// unless VolumeFillGaps is set, in which case they appear with a zero count.
func BuildApplicationForecast(apps []schema.ApplicationRecord, now time.Time, s contract.PipelineSettings) (schema.ApplicationForecastResult, error) {
	windowStart := agg.ReferenceDate(now, agg.Days, s.VolumeDays)
	result := schema.ApplicationForecastResult{
		Data: []schema.VolumePoint{},
		Metadata: schema.VolumeMetadata{
			Description:    schema.VolumeDescription,
			HistoricalDays: s.VolumeDays,
			ForecastDays:   s.VolumeHorizon,
			WindowStart:    formatTime(windowStart),
			ReferenceTime:  formatTime(now),
		},
	}

	times, err := toTimes(apps, windowStart)
	if err != nil {
		return schema.ApplicationForecastResult{}, err
	}

	counts := agg.DailyCounts(times)
	days := agg.SortedKeys(counts)
	if len(days) == 0 {
		return result, nil
	}
	if s.VolumeFillGaps {
		if days, err = agg.DayRange(days[0], days[len(days)-1]); err != nil {
			return schema.ApplicationForecastResult{}, fmt.Errorf("%w: %v", schema.ErrProcessing, err)
		}
	}

	points := make([]algo.TimePoint, 0, len(days))
	for i, day := range days {
		result.Data = append(result.Data, schema.VolumePoint{Date: day, DayIndex: i, Count: counts[day]})
		points = append(points, algo.TimePoint{Index: i, Value: float64(counts[day])})
	}

	lastIndex := len(days) - 1
	for _, p := range algo.Forecast(points, s.VolumeHorizon) {
		date, err := agg.ShiftDay(days[lastIndex], p.Index-lastIndex)
		if err != nil {
			return schema.ApplicationForecastResult{}, fmt.Errorf("%w: %v", schema.ErrProcessing, err)
		}
		result.Data = append(result.Data, schema.VolumePoint{
			Date:       date,
			DayIndex:   p.Index,
			Count:      int(p.Value),
			IsForecast: true,
		})
	}

	return result, nil
}
