package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for records, caching and history.
	DatabaseBackend string

	// QualityTier represents the bucket a candidate falls into based on scores.
	QualityTier string

	// TrendDirection represents the direction of a skill demand change.
	TrendDirection string

	// Pipeline names one of the aggregation pipelines.
	Pipeline string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All quality tiers supported.
const (
	ExcellentTier QualityTier = "excellent"
	GoodTier      QualityTier = "good"
	PoorTier      QualityTier = "poor"
)

// All trend directions supported.
const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// All pipelines supported.
const (
	SkillGapPipeline    Pipeline = "skill-gap"
	QualityPipeline     Pipeline = "quality"
	VolumePipeline      Pipeline = "volume"
	SkillDemandPipeline Pipeline = "skill-demand"
)

// AllPipelines returns a list of all supported pipelines.
var AllPipelines = []Pipeline{SkillGapPipeline, QualityPipeline, VolumePipeline, SkillDemandPipeline}

// AllQualityTiers lists quality tiers from best to worst.
var AllQualityTiers = []QualityTier{ExcellentTier, GoodTier, PoorTier}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPipelines lists all valid pipelines.
var ValidPipelines = map[Pipeline]struct{}{
	SkillGapPipeline:    {},
	QualityPipeline:     {},
	VolumePipeline:      {},
	SkillDemandPipeline: {},
}
