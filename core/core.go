// Package core has the aggregation pipelines and their entry points with caching and run tracking.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/hirecast/core/agg"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/internal/outwriter"
	"github.com/huangsam/hirecast/schema"
	"github.com/rs/zerolog/log"
)

// pipeline describes how to fetch and build one kind of result.
type pipeline[R any] struct {
	name      schema.Pipeline
	since     time.Time
	needRoles bool
	build     func(apps []schema.ApplicationRecord, roles []schema.RoleRecord) (R, error)
	points    func(R) []schema.SeriesPoint
}

// GetSkillGapResults runs the skill-gap pipeline and returns its result with the elapsed time.
func GetSkillGapResults(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (schema.SkillGapResult, time.Duration, error) {
	s := cfg.Pipelines
	return runPipeline(ctx, cfg, src, mgr, pipeline[schema.SkillGapResult]{
		name:      schema.SkillGapPipeline,
		since:     agg.ReferenceDate(cfg.ReferenceTime, agg.Months, s.WindowMonths),
		needRoles: true,
		build: func(apps []schema.ApplicationRecord, roles []schema.RoleRecord) (schema.SkillGapResult, error) {
			return BuildSkillGapTrends(apps, roles, cfg.ReferenceTime, s)
		},
		points: schema.SkillGapResult.SeriesPoints,
	})
}

// GetQualityResults runs the quality distribution pipeline.
func GetQualityResults(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (schema.QualityDistributionResult, time.Duration, error) {
	s := cfg.Pipelines
	return runPipeline(ctx, cfg, src, mgr, pipeline[schema.QualityDistributionResult]{
		name:  schema.QualityPipeline,
		since: agg.ReferenceDate(cfg.ReferenceTime, agg.Months, s.WindowMonths),
		build: func(apps []schema.ApplicationRecord, _ []schema.RoleRecord) (schema.QualityDistributionResult, error) {
			return BuildQualityDistribution(apps, cfg.ReferenceTime, s)
		},
		points: schema.QualityDistributionResult.SeriesPoints,
	})
}

// GetVolumeResults runs the application volume forecast pipeline.
func GetVolumeResults(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (schema.ApplicationForecastResult, time.Duration, error) {
	s := cfg.Pipelines
	return runPipeline(ctx, cfg, src, mgr, pipeline[schema.ApplicationForecastResult]{
		name:  schema.VolumePipeline,
		since: agg.ReferenceDate(cfg.ReferenceTime, agg.Days, s.VolumeDays),
		build: func(apps []schema.ApplicationRecord, _ []schema.RoleRecord) (schema.ApplicationForecastResult, error) {
			return BuildApplicationForecast(apps, cfg.ReferenceTime, s)
		},
		points: schema.ApplicationForecastResult.SeriesPoints,
	})
}

// GetSkillDemandResults runs the skill demand growth pipeline.
func GetSkillDemandResults(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (schema.SkillDemandResult, time.Duration, error) {
	s := cfg.Pipelines
	return runPipeline(ctx, cfg, src, mgr, pipeline[schema.SkillDemandResult]{
		name:  schema.SkillDemandPipeline,
		since: agg.ReferenceDate(cfg.ReferenceTime, agg.Months, s.WindowMonths),
		build: func(apps []schema.ApplicationRecord, _ []schema.RoleRecord) (schema.SkillDemandResult, error) {
			return BuildSkillDemand(apps, cfg.ReferenceTime, s)
		},
		points: schema.SkillDemandResult.SeriesPoints,
	})
}

// ExecuteSkillGap runs the skill-gap pipeline and prints results.
// It serves as the main entry point for the 'skill-gap' command.
func ExecuteSkillGap(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	result, duration, err := GetSkillGapResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSkillGapResults(result, cfg, duration)
}

// ExecuteQuality runs the quality distribution pipeline and prints results.
func ExecuteQuality(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	result, duration, err := GetQualityResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintQualityResults(result, cfg, duration)
}

// ExecuteVolume runs the application volume pipeline and prints results.
func ExecuteVolume(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	result, duration, err := GetVolumeResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintVolumeResults(result, cfg, duration)
}

// ExecuteSkillDemand runs the skill demand pipeline and prints results.
func ExecuteSkillDemand(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	result, duration, err := GetSkillDemandResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSkillDemandResults(result, cfg, duration)
}

// runPipeline fetches records, builds the result and takes care of caching and run history.
// A fetch failure stops the pipeline before any computation.
func runPipeline[R any](ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager, p pipeline[R]) (R, time.Duration, error) {
	var zero R
	start := time.Now()
	logger := log.With().Str("pipeline", string(p.name)).Logger()

	var store contract.CacheStore
	var key string
	if mgr != nil && !shouldSkipCache(ctx) {
		store = mgr.GetResultStore()
	}
	if store != nil {
		fingerprint, err := src.Fingerprint(ctx, p.since)
		if err != nil {
			logger.Debug().Err(err).Msg("Skipping cache, fingerprint unavailable")
			store = nil
		} else {
			key = generateCacheKey(p.name, cfg, fingerprint)
			if cached, ok := checkCacheHit[R](store, key); ok {
				logger.Debug().Msg("Cache hit")
				return cached, time.Since(start), nil
			}
		}
	}

	apps, err := src.ListApplications(ctx, p.since)
	if err != nil {
		return zero, time.Since(start), fmt.Errorf("%w: %s: %w", schema.ErrFetch, p.name, err)
	}
	var roles []schema.RoleRecord
	if p.needRoles {
		if roles, err = src.ListRoles(ctx); err != nil {
			return zero, time.Since(start), fmt.Errorf("%w: %s: %w", schema.ErrFetch, p.name, err)
		}
	}

	result, err := guard(p.name, func() (R, error) { return p.build(apps, roles) })
	if err != nil {
		return zero, time.Since(start), err
	}
	logger.Debug().Int("applications", len(apps)).Int("roles", len(roles)).Msg("Pipeline built")

	if store != nil {
		storeResult(store, key, result)
	}
	if mgr != nil && !shouldSkipHistory(ctx) {
		recordRun(mgr.GetHistoryStore(), cfg, p.name, start, p.points(result))
	}

	return result, time.Since(start), nil
}

// guard runs a pipeline build, converting panics into processing errors.
// Failures are logged with the pipeline name and no partial result escapes.
func guard[R any](name schema.Pipeline, build func() (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", schema.ErrProcessing, name, r)
		}
		if err != nil {
			var zero R
			result = zero
			log.Error().Err(err).Str("pipeline", string(name)).Msg("Pipeline failed")
		}
	}()
	result, err = build()
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return result, err
}

// recordRun stores a completed run and its series. History is best effort.
func recordRun(history contract.HistoryStore, cfg *contract.Config, name schema.Pipeline, start time.Time, points []schema.SeriesPoint) {
	if history == nil {
		return
	}
	params := map[string]any{
		"pipelines":      cfg.Pipelines,
		"recordsBackend": cfg.RecordsBackend,
	}
	runID, err := history.BeginRun(start, name, cfg.ReferenceTime, params)
	if err != nil {
		contract.LogWarn("Failed to begin run history", err)
		return
	}
	if err := history.RecordSeries(runID, points); err != nil {
		contract.LogWarn("Failed to record run series", err)
	}
	if err := history.EndRun(runID, time.Now(), len(points)); err != nil {
		contract.LogWarn("Failed to end run history", err)
	}
}
