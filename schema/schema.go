// Package schema has records, results and shared enums for all parts of hirecast.
package schema

// Descriptions attached to result metadata. The *Format variants take counts.
const (
	SkillGapDescriptionFormat    = "Top %d skills with largest shortage"
	SkillGapCalculation          = "Gap Ratio = Demand (jobs requiring skill) / Supply (candidates with skill)"
	QualityDescription           = "Candidate quality distribution over time"
	ExcellentCategory            = "AI Score ≥ 80 OR Test Score ≥ 80"
	GoodCategory                 = "Scores between 60-79"
	PoorCategory                 = "Scores below 60"
	VolumeDescription            = "Total application volume forecast"
	SkillDemandDescription       = "Emerging skills based on candidate resume trends"
	SkillDemandCalculationFormat = "Compares skill frequency in last %d months vs previous %d months"
	MonthsPeriodFormat           = "%d months"
	SingleMonthPeriod            = "1 month"
	LastMonthsPeriodFormat       = "Last %d months"
)
