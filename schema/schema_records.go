package schema

import (
	"time"

	"github.com/guregu/null/v5"
)

// ApplicationRecord is one job application as delivered by a record source.
// AppliedAt keeps the stored ISO-8601 text; pipelines parse it.
type ApplicationRecord struct {
	ApplicationID string      `json:"applicationId"`
	RoleID        string      `json:"roleId"`
	AppliedAt     string      `json:"appliedAt"`
	MatchedSkills null.String `json:"matchedSkills"`
	AIScore       null.Float  `json:"aiScore"`
	TestScore     null.Float  `json:"testScore"`
}

// RoleRecord is one entry of the role catalog.
type RoleRecord struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Skills []string `json:"skills" yaml:"skills"`
}

// SkillRecord is an application reduced to its timestamp and matched skills.
type SkillRecord struct {
	At     time.Time
	Skills []string
}

// QualityRecord is an application reduced to its timestamp and scores.
type QualityRecord struct {
	At        time.Time
	AIScore   float64
	TestScore null.Float
}
