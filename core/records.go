package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hirecast/core/agg"
	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/schema"
)

// processingError tags err as a malformed-record failure for the given application.
func processingError(app schema.ApplicationRecord, err error) error {
	return fmt.Errorf("%w: application %q: %v", schema.ErrProcessing, app.ApplicationID, err)
}

// appliedAt parses the stored timestamp of an application.
func appliedAt(app schema.ApplicationRecord) (time.Time, error) {
	t, err := agg.ParseTimestamp(app.AppliedAt)
	if err != nil {
		return time.Time{}, processingError(app, err)
	}
	return t, nil
}

// toSkillRecords reduces applications submitted at or after since to their
// timestamp and distinct matched skills.
func toSkillRecords(apps []schema.ApplicationRecord, since time.Time) ([]schema.SkillRecord, error) {
	out := make([]schema.SkillRecord, 0, len(apps))
	for _, app := range apps {
		at, err := appliedAt(app)
		if err != nil {
			return nil, err
		}
		if at.Before(since) {
			continue
		}
		out = append(out, schema.SkillRecord{
			At:     at,
			Skills: algo.UniqueSkills(algo.ParseSkillList(app.MatchedSkills)),
		})
	}
	return out, nil
}

// toQualityRecords reduces applications submitted at or after since to their timestamp and scores.
// Every application in the window must carry an AI score; the test score stays optional.
func toQualityRecords(apps []schema.ApplicationRecord, since time.Time) ([]schema.QualityRecord, error) {
	out := make([]schema.QualityRecord, 0, len(apps))
	for _, app := range apps {
		at, err := appliedAt(app)
		if err != nil {
			return nil, err
		}
		if at.Before(since) {
			continue
		}
		if !app.AIScore.Valid {
			return nil, processingError(app, fmt.Errorf("missing ai score"))
		}
		out = append(out, schema.QualityRecord{At: at, AIScore: app.AIScore.Float64, TestScore: app.TestScore})
	}
	return out, nil
}

// toTimes extracts application timestamps at or after since.
func toTimes(apps []schema.ApplicationRecord, since time.Time) ([]time.Time, error) {
	out := make([]time.Time, 0, len(apps))
	for _, app := range apps {
		at, err := appliedAt(app)
		if err != nil {
			return nil, err
		}
		if at.Before(since) {
			continue
		}
		out = append(out, at)
	}
	return out, nil
}

// roleDemand counts how many roles list each skill, in catalog order.
func roleDemand(roles []schema.RoleRecord) (map[string]int, []string) {
	demand := make(map[string]int)
	var order []string
	for _, role := range roles {
		for _, skill := range algo.UniqueSkills(role.Skills) {
			if _, ok := demand[skill]; !ok {
				order = append(order, skill)
			}
			demand[skill]++
		}
	}
	return demand, order
}

// formatTime renders metadata timestamps.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
