package records

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
)

// Score ranges of generated applications.
const (
	minAIScore        = 55
	maxAIScore        = 95
	testEligibleScore = 60
	testScoreSpread   = 15.0
	minTestScore      = 40.0
	maxTestScore      = 95.0
	minMatchedSkills  = 3
	maxMatchedSkills  = 7
)

// SeedOptions controls synthetic application generation.
type SeedOptions struct {
	Count  int       // number of applications
	Months int       // applications are spread over this many months before Now
	Seed   uint64    // same seed, same applications
	Now    time.Time // upper bound of applied_at
}

// DefaultSeedOptions returns options that fill the default pipeline windows.
func DefaultSeedOptions(now time.Time) SeedOptions {
	return SeedOptions{Count: 500, Months: 6, Seed: 1, Now: now}
}

// Validate checks that the options can produce applications.
func (o SeedOptions) Validate() error {
	if o.Count < 1 {
		return fmt.Errorf("count must be positive (received %d)", o.Count)
	}
	if o.Months < 1 {
		return fmt.Errorf("months must be positive (received %d)", o.Months)
	}
	if o.Now.IsZero() {
		return errors.New("reference time is required")
	}
	return nil
}

// Generate builds synthetic applications for the given roles.
// Each application matches a random subset of its role's skills and gets an AI score;
// candidates above the test threshold also get a test score close to it.
func Generate(roles []schema.RoleRecord, opts SeedOptions) ([]schema.ApplicationRecord, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, errors.New("at least one role is required")
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], opts.Seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	end := opts.Now.UTC().Truncate(time.Second)
	start := end.AddDate(0, -opts.Months, 0)
	span := int64(end.Sub(start) / time.Second)

	apps := make([]schema.ApplicationRecord, 0, opts.Count)
	for range opts.Count {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to generate application id: %w", err)
		}
		role := roles[rng.IntN(len(roles))]
		appliedAt := start.Add(time.Duration(rng.Int64N(span)+1) * time.Second)
		aiScore := float64(minAIScore + rng.IntN(maxAIScore-minAIScore+1))

		app := schema.ApplicationRecord{
			ApplicationID: id.String(),
			RoleID:        role.ID,
			AppliedAt:     appliedAt.Format(time.RFC3339),
			MatchedSkills: matchedSkills(rng, role.Skills),
			AIScore:       null.FloatFrom(aiScore),
		}
		if aiScore >= testEligibleScore {
			app.TestScore = null.FloatFrom(testScore(rng, aiScore))
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// matchedSkills picks between minMatchedSkills and maxMatchedSkills of the role's skills.
func matchedSkills(rng *rand.Rand, skills []string) null.String {
	if len(skills) == 0 {
		return null.String{}
	}
	n := min(minMatchedSkills+rng.IntN(maxMatchedSkills-minMatchedSkills+1), len(skills))
	picked := make([]string, len(skills))
	copy(picked, skills)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return null.StringFrom(strings.Join(picked[:n], algo.SkillListDivider+" "))
}

// testScore varies the AI score by up to testScoreSpread and clamps it.
func testScore(rng *rand.Rand, aiScore float64) float64 {
	score := aiScore + (rng.Float64()*2-1)*testScoreSpread
	score = max(minTestScore, min(maxTestScore, score))
	return algo.RoundTo(score, 1)
}

// Seed writes roles and generated applications through w and returns the number of applications.
func Seed(ctx context.Context, w contract.RecordWriter, roles []schema.RoleRecord, opts SeedOptions) (int, error) {
	apps, err := Generate(roles, opts)
	if err != nil {
		return 0, err
	}
	if err := w.InsertRoles(ctx, roles); err != nil {
		return 0, err
	}
	if err := w.InsertApplications(ctx, apps); err != nil {
		return 0, err
	}
	return len(apps), nil
}
