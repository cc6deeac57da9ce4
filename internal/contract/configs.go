package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/hirecast/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultLogLevel  = "info"
	DefaultAddr      = ":8080"
	MaxTopLimit      = 100
	MaxHorizon       = 365
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// nowFunc is swapped in tests to pin the wall clock.
var nowFunc = time.Now

// PipelineSettings holds the window sizes, ranking limits and forecast horizons of the pipelines.
type PipelineSettings struct {
	WindowMonths        int  `json:"windowMonths"`
	SplitMonths         int  `json:"splitMonths"`
	SkillGapTop         int  `json:"skillGapTop"`
	SkillGapHorizon     int  `json:"skillGapHorizon"`
	QualityRecentMonths int  `json:"qualityRecentMonths"`
	QualityHorizon      int  `json:"qualityHorizon"`
	VolumeDays          int  `json:"volumeDays"`
	VolumeHorizon       int  `json:"volumeHorizon"`
	VolumeFillGaps      bool `json:"volumeFillGaps"`
	DemandTop           int  `json:"demandTop"`
}

// DefaultPipelineSettings returns the settings used by the recruiting dashboard.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		WindowMonths:        6,
		SplitMonths:         3,
		SkillGapTop:         5,
		SkillGapHorizon:     3,
		QualityRecentMonths: 3,
		QualityHorizon:      1,
		VolumeDays:          90,
		VolumeHorizon:       30,
		VolumeFillGaps:      false,
		DemandTop:           10,
	}
}

// Validate checks that every window, limit and horizon is usable.
func (s PipelineSettings) Validate() error {
	checks := []struct {
		name  string
		value int
		min   int
		max   int
	}{
		{"window-months", s.WindowMonths, 1, 120},
		{"split-months", s.SplitMonths, 1, 120},
		{"skill-gap-top", s.SkillGapTop, 1, MaxTopLimit},
		{"skill-gap-horizon", s.SkillGapHorizon, 1, MaxHorizon},
		{"quality-recent-months", s.QualityRecentMonths, 1, 120},
		{"quality-horizon", s.QualityHorizon, 1, MaxHorizon},
		{"volume-days", s.VolumeDays, 1, 3650},
		{"volume-horizon", s.VolumeHorizon, 1, MaxHorizon},
		{"demand-top", s.DemandTop, 1, MaxTopLimit},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return fmt.Errorf("%s must be between %d and %d (received %d)", c.name, c.min, c.max, c.value)
		}
	}
	if s.SplitMonths >= s.WindowMonths {
		return fmt.Errorf("split-months (%d) must be less than window-months (%d)", s.SplitMonths, s.WindowMonths)
	}
	return nil
}

// Config holds the runtime configuration for the pipelines.
// This struct is the "final, validated" config.
type Config struct {
	ReferenceTime time.Time
	PinnedTime    bool // ReferenceTime came from --now rather than the clock
	Pipelines     PipelineSettings

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   string
	Addr       string

	RecordsBackend   schema.DatabaseBackend
	RecordsDBConnect string // Please use env var as this is plaintext
	RolesFile        string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Now              string `mapstructure:"now"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	LogLevel         string `mapstructure:"log-level"`
	RecordsBackend   string `mapstructure:"records-backend"`
	RecordsDBConnect string `mapstructure:"records-db-connect"`
	RolesFile        string `mapstructure:"roles-file"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`

	// --- Pipeline settings from flags or the config file ---
	Pipelines PipelinesRawInput `mapstructure:"pipelines"`
}

// PipelinesRawInput holds optional pipeline overrides. Nil means "use the default".
type PipelinesRawInput struct {
	WindowMonths        *int  `mapstructure:"window-months"`
	SplitMonths         *int  `mapstructure:"split-months"`
	SkillGapTop         *int  `mapstructure:"skill-gap-top"`
	SkillGapHorizon     *int  `mapstructure:"skill-gap-horizon"`
	QualityRecentMonths *int  `mapstructure:"quality-recent-months"`
	QualityHorizon      *int  `mapstructure:"quality-horizon"`
	VolumeDays          *int  `mapstructure:"volume-days"`
	VolumeHorizon       *int  `mapstructure:"volume-horizon"`
	VolumeFillGaps      *bool `mapstructure:"volume-fill-gaps"`
	DemandTop           *int  `mapstructure:"demand-top"`
}

// Clone returns a copy of the Config struct. Config holds no reference types.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithReferenceTime creates a copy of the Config pinned to another reference time.
func (c *Config) CloneWithReferenceTime(now time.Time) *Config {
	clone := c.Clone()
	clone.ReferenceTime = now
	return clone
}

// GetCacheReferenceTime returns the reference time used in cache keys.
// Every pipeline window is measured from this exact instant, so it is never rounded.
func (c *Config) GetCacheReferenceTime() time.Time {
	return c.ReferenceTime.UTC()
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processReferenceTime(cfg, input); err != nil {
		return err
	}
	if err := processPipelineSettings(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// parseBackend lowercases and validates a backend name.
func parseBackend(flag, raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid %s '%s'. must be sqlite, mysql, postgresql, none", flag, raw)
	}
	return backend, nil
}

// validateBackendConfigs validates records, cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Records Backend Validation ---
	backend, err := parseBackend("records backend", input.RecordsBackend)
	if err != nil {
		return err
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("records backend cannot be none")
	}
	cfg.RecordsBackend = backend
	cfg.RecordsDBConnect = input.RecordsDBConnect
	if cfg.RecordsBackend == schema.SQLiteBackend && cfg.RecordsDBConnect == "" {
		cfg.RecordsDBConnect = GetRecordsDBFilePath()
	}
	if err := ValidateDatabaseConnectionString(cfg.RecordsBackend, cfg.RecordsDBConnect); err != nil {
		return fmt.Errorf("records-db-connect: %w", err)
	}
	cfg.RolesFile = strings.TrimSpace(input.RolesFile)

	// --- Cache Backend Validation ---
	if cfg.CacheBackend, err = parseBackend("cache backend", input.CacheBackend); err != nil {
		return err
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	if cfg.HistoryBackend, err = parseBackend("history backend", input.HistoryBackend); err != nil {
		return err
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// Cache and history keep separate schemas, so SQLite files must not collide
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the output, logging and backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Log Level Validation ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, ok := validLogLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

var validLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// processReferenceTime resolves the "now" every pipeline measures its windows from.
func processReferenceTime(cfg *Config, input *ConfigRawInput) error {
	now := nowFunc().UTC()
	cfg.ReferenceTime = now

	raw := strings.TrimSpace(input.Now)
	if raw == "" {
		return nil
	}
	t, err := ParseReferenceTime(raw, now)
	if err != nil {
		return fmt.Errorf("invalid --now format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %w", raw, err)
	}
	cfg.ReferenceTime = t
	cfg.PinnedTime = true
	return nil
}

// ParseReferenceTime parses an RFC3339 timestamp or a relative "N [units] ago" expression.
func ParseReferenceTime(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateTimeFormat, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := ParseRelativeTime(raw, now)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// RequestOverrides holds the per-request parameters accepted by the HTTP API and MCP tools.
// Zero values keep the configured setting.
type RequestOverrides struct {
	Now     string
	Top     int
	Horizon int
}

// ForRequest returns a copy of the Config for one pipeline request. Unless the
// configuration pins the reference time, each request measures from the current clock.
func (c *Config) ForRequest(pipeline schema.Pipeline, o RequestOverrides) (*Config, error) {
	cfg := c.Clone()
	if !cfg.PinnedTime {
		cfg.ReferenceTime = nowFunc().UTC()
	}
	if raw := strings.TrimSpace(o.Now); raw != "" {
		t, err := ParseReferenceTime(raw, nowFunc().UTC())
		if err != nil {
			return nil, fmt.Errorf("invalid now '%s': %w", raw, err)
		}
		cfg.ReferenceTime = t
	}

	if o.Top < 0 || o.Horizon < 0 {
		return nil, fmt.Errorf("top and horizon must not be negative")
	}
	s := &cfg.Pipelines
	switch pipeline {
	case schema.SkillGapPipeline:
		setIfPositive(&s.SkillGapTop, o.Top)
		setIfPositive(&s.SkillGapHorizon, o.Horizon)
	case schema.QualityPipeline:
		setIfPositive(&s.QualityHorizon, o.Horizon)
	case schema.VolumePipeline:
		setIfPositive(&s.VolumeHorizon, o.Horizon)
	case schema.SkillDemandPipeline:
		setIfPositive(&s.DemandTop, o.Top)
	default:
		return nil, fmt.Errorf("unknown pipeline '%s'", pipeline)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// processPipelineSettings merges overrides onto the defaults and validates the result.
func processPipelineSettings(cfg *Config, input *ConfigRawInput) error {
	s := DefaultPipelineSettings()
	raw := input.Pipelines

	overrideInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	overrideInt(&s.WindowMonths, raw.WindowMonths)
	overrideInt(&s.SplitMonths, raw.SplitMonths)
	overrideInt(&s.SkillGapTop, raw.SkillGapTop)
	overrideInt(&s.SkillGapHorizon, raw.SkillGapHorizon)
	overrideInt(&s.QualityRecentMonths, raw.QualityRecentMonths)
	overrideInt(&s.QualityHorizon, raw.QualityHorizon)
	overrideInt(&s.VolumeDays, raw.VolumeDays)
	overrideInt(&s.VolumeHorizon, raw.VolumeHorizon)
	overrideInt(&s.DemandTop, raw.DemandTop)
	if raw.VolumeFillGaps != nil {
		s.VolumeFillGaps = *raw.VolumeFillGaps
	}

	if err := s.Validate(); err != nil {
		return err
	}
	cfg.Pipelines = s
	return nil
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, "/") {
		return fmt.Errorf("profile prefix '%s' must name a file, not a directory", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
