package schema

// SeriesPoint is a single flattened value from any pipeline result.
// It is the row format used by CSV output, Parquet output and run history.
type SeriesPoint struct {
	Pipeline   Pipeline `json:"pipeline"`
	Series     string   `json:"series"`
	Period     string   `json:"period"`
	Index      int      `json:"index"`
	Value      float64  `json:"value"`
	IsForecast bool     `json:"isForecast"`
}

// Series names used when flattening non-skill results.
const (
	SeriesTotal         = "total"
	SeriesCount         = "count"
	SeriesGrowthRate    = "growth_rate"
	PeriodPreviousCount = "previous"
	PeriodRecentCount   = "recent"
	PeriodGrowth        = "growth"
)

// SeriesPoints flattens the skill-gap timeline.
func (r SkillGapResult) SeriesPoints() []SeriesPoint {
	var points []SeriesPoint
	for _, row := range r.Data {
		for _, skill := range sortedKeys(row.Actual) {
			points = append(points, SeriesPoint{
				Pipeline: SkillGapPipeline, Series: skill, Period: row.Month,
				Index: row.MonthIndex, Value: row.Actual[skill],
			})
		}
		for _, skill := range sortedKeys(row.Forecast) {
			points = append(points, SeriesPoint{
				Pipeline: SkillGapPipeline, Series: skill, Period: row.Month,
				Index: row.MonthIndex, Value: row.Forecast[skill], IsForecast: true,
			})
		}
	}
	return points
}

// SeriesPoints flattens the quality buckets into one series per tier plus the total.
func (r QualityDistributionResult) SeriesPoints() []SeriesPoint {
	var points []SeriesPoint
	for _, b := range r.Data {
		values := []struct {
			series string
			value  int
		}{
			{string(ExcellentTier), b.Excellent},
			{string(GoodTier), b.Good},
			{string(PoorTier), b.Poor},
			{SeriesTotal, b.Total},
		}
		for _, v := range values {
			points = append(points, SeriesPoint{
				Pipeline: QualityPipeline, Series: v.series, Period: b.Month,
				Index: b.MonthIndex, Value: float64(v.value), IsForecast: b.IsForecast,
			})
		}
	}
	return points
}

// SeriesPoints flattens the daily volume series.
func (r ApplicationForecastResult) SeriesPoints() []SeriesPoint {
	points := make([]SeriesPoint, 0, len(r.Data))
	for _, p := range r.Data {
		points = append(points, SeriesPoint{
			Pipeline: VolumePipeline, Series: SeriesCount, Period: p.Date,
			Index: p.DayIndex, Value: float64(p.Count), IsForecast: p.IsForecast,
		})
	}
	return points
}

// SeriesPoints flattens each ranked skill into previous, recent and growth values.
// Index is the rank of the skill.
func (r SkillDemandResult) SeriesPoints() []SeriesPoint {
	points := make([]SeriesPoint, 0, len(r.Skills)*3)
	for i, s := range r.Skills {
		points = append(points,
			SeriesPoint{Pipeline: SkillDemandPipeline, Series: s.Skill, Period: PeriodPreviousCount, Index: i, Value: float64(s.PreviousCount)},
			SeriesPoint{Pipeline: SkillDemandPipeline, Series: s.Skill, Period: PeriodRecentCount, Index: i, Value: float64(s.RecentCount)},
			SeriesPoint{Pipeline: SkillDemandPipeline, Series: s.Skill, Period: PeriodGrowth, Index: i, Value: float64(s.GrowthRate)},
		)
	}
	return points
}
