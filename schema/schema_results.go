package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ForecastSuffix marks a skill-gap column holding projected values.
const ForecastSuffix = "_forecast"

// reservedRowKeys are the fixed fields of a flattened skill-gap row.
var reservedRowKeys = map[string]struct{}{"month": {}, "monthIndex": {}, "isForecast": {}}

// ValidateSkillName reports whether a skill can be used as a skill-gap row key.
// Skills may not shadow the fixed row fields or end in ForecastSuffix.
func ValidateSkillName(skill string) error {
	if _, ok := reservedRowKeys[skill]; ok {
		return fmt.Errorf("skill name %q is reserved", skill)
	}
	if strings.HasSuffix(skill, ForecastSuffix) {
		return fmt.Errorf("skill name %q must not end in %q", skill, ForecastSuffix)
	}
	return nil
}

// SkillGapRow is one month on the shared skill-gap timeline.
// Actual holds gap ratios for historical months and Forecast holds projections.
type SkillGapRow struct {
	Month      string
	MonthIndex int
	IsForecast bool
	Actual     map[string]float64
	Forecast   map[string]float64
}

// MarshalJSON flattens the row into {month, monthIndex, <skill>..., <skill>_forecast..., isForecast}
// with a stable key order.
func (r SkillGapRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField("month", r.Month); err != nil {
		return nil, err
	}
	if err := writeField("monthIndex", r.MonthIndex); err != nil {
		return nil, err
	}
	for _, skill := range sortedKeys(r.Actual) {
		if err := writeField(skill, r.Actual[skill]); err != nil {
			return nil, err
		}
	}
	for _, skill := range sortedKeys(r.Forecast) {
		if err := writeField(skill+ForecastSuffix, r.Forecast[skill]); err != nil {
			return nil, err
		}
	}
	if r.IsForecast {
		if err := writeField("isForecast", true); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reverses MarshalJSON.
func (r *SkillGapRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = SkillGapRow{}
	for key, value := range raw {
		var err error
		switch key {
		case "month":
			err = json.Unmarshal(value, &r.Month)
		case "monthIndex":
			err = json.Unmarshal(value, &r.MonthIndex)
		case "isForecast":
			err = json.Unmarshal(value, &r.IsForecast)
		default:
			var v float64
			if err = json.Unmarshal(value, &v); err != nil {
				break
			}
			if skill, ok := strings.CutSuffix(key, ForecastSuffix); ok {
				if r.Forecast == nil {
					r.Forecast = make(map[string]float64)
				}
				r.Forecast[skill] = v
			} else {
				if r.Actual == nil {
					r.Actual = make(map[string]float64)
				}
				r.Actual[key] = v
			}
		}
		if err != nil {
			return fmt.Errorf("invalid skill gap field %q: %w", key, err)
		}
	}
	return nil
}

// SkillGapRank summarizes one ranked skill.
type SkillGapRank struct {
	Skill      string  `json:"skill"`
	Demand     int     `json:"demand"`
	AverageGap float64 `json:"averageGap"`
}

// SkillGapMetadata describes how the skill-gap result was computed.
type SkillGapMetadata struct {
	Description    string `json:"description"`
	Calculation    string `json:"calculation"`
	ForecastPeriod string `json:"forecastPeriod"`
	WindowStart    string `json:"windowStart"`
	ReferenceTime  string `json:"referenceTime"`
}

// SkillGapResult is the output of the skill-gap pipeline.
type SkillGapResult struct {
	Skills   []string         `json:"skills"`
	Rankings []SkillGapRank   `json:"rankings"`
	Data     []SkillGapRow    `json:"data"`
	Metadata SkillGapMetadata `json:"metadata"`
}

// QualityBucket is one month of quality tier tallies.
type QualityBucket struct {
	Month      string `json:"month"`
	MonthIndex int    `json:"monthIndex"`
	Excellent  int    `json:"excellent"`
	Good       int    `json:"good"`
	Poor       int    `json:"poor"`
	Total      int    `json:"total"`
	IsForecast bool   `json:"isForecast,omitempty"`
}

// Add tallies one candidate into the bucket.
func (b *QualityBucket) Add(tier QualityTier) {
	switch tier {
	case ExcellentTier:
		b.Excellent++
	case GoodTier:
		b.Good++
	default:
		b.Poor++
	}
	b.Total++
}

// QualityShares holds whole-number percentages per tier.
type QualityShares struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Poor      int `json:"poor"`
}

// QualityCategories documents the tier thresholds.
type QualityCategories struct {
	Excellent string `json:"excellent"`
	Good      string `json:"good"`
	Poor      string `json:"poor"`
}

// QualityMetadata describes how the quality result was computed.
type QualityMetadata struct {
	Description    string            `json:"description"`
	Categories     QualityCategories `json:"categories"`
	ForecastPeriod string            `json:"forecastPeriod"`
	WindowStart    string            `json:"windowStart"`
	ReferenceTime  string            `json:"referenceTime"`
}

// QualityDistributionResult is the output of the quality pipeline.
type QualityDistributionResult struct {
	Data                []QualityBucket `json:"data"`
	CurrentDistribution QualityShares   `json:"currentDistribution"`
	Metadata            QualityMetadata `json:"metadata"`
}

// VolumePoint is one day of application volume.
type VolumePoint struct {
	Date       string `json:"date"`
	DayIndex   int    `json:"dayIndex"`
	Count      int    `json:"count"`
	IsForecast bool   `json:"isForecast"`
}

// VolumeMetadata describes how the volume result was computed.
type VolumeMetadata struct {
	Description    string `json:"description"`
	HistoricalDays int    `json:"historicalDays"`
	ForecastDays   int    `json:"forecastDays"`
	WindowStart    string `json:"windowStart"`
	ReferenceTime  string `json:"referenceTime"`
}

// ApplicationForecastResult is the output of the volume pipeline.
type ApplicationForecastResult struct {
	Data     []VolumePoint  `json:"data"`
	Metadata VolumeMetadata `json:"metadata"`
}

// SkillGrowth is the demand change of one skill between two periods.
type SkillGrowth struct {
	Skill         string         `json:"skill"`
	PreviousCount int            `json:"previousCount"`
	RecentCount   int            `json:"recentCount"`
	GrowthRate    int            `json:"growthRate"`
	Trend         TrendDirection `json:"trend"`
}

// SkillDemandMetadata describes how the skill demand result was computed.
type SkillDemandMetadata struct {
	Description   string `json:"description"`
	Calculation   string `json:"calculation"`
	Period        string `json:"period"`
	SplitTime     string `json:"splitTime"`
	WindowStart   string `json:"windowStart"`
	ReferenceTime string `json:"referenceTime"`
}

// SkillDemandResult is the output of the skill demand pipeline.
type SkillDemandResult struct {
	Skills   []SkillGrowth       `json:"skills"`
	Metadata SkillDemandMetadata `json:"metadata"`
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
