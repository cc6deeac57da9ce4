// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"golang.org/x/term"
)

// PrintSkillGapResults writes the skill-gap result to stdout or the configured output file.
func PrintSkillGapResults(result schema.SkillGapResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSkillGapResults(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s skill-gap results", cfg.Output))
}

// PrintQualityResults writes the quality distribution to stdout or the configured output file.
func PrintQualityResults(result schema.QualityDistributionResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteQualityResults(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s quality results", cfg.Output))
}

// PrintVolumeResults writes the application forecast to stdout or the configured output file.
func PrintVolumeResults(result schema.ApplicationForecastResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteVolumeResults(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s volume results", cfg.Output))
}

// PrintSkillDemandResults writes the skill demand result to stdout or the configured output file.
func PrintSkillDemandResults(result schema.SkillDemandResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSkillDemandResults(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s skill demand results", cfg.Output))
}

// GetMaxTableLabelWidth calculates the maximum width for skill names in table output
// based on terminal width and the width taken by the other columns.
func GetMaxTableLabelWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedWidth - 10
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateLabel shortens s to at most maxWidth runes, marking the cut with an ellipsis.
func truncateLabel(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return "..." + string(runes[len(runes)-maxWidth+3:])
}

// labelers picks plain or colored labels for table cells.
type labelers struct {
	trend    func(schema.TrendDirection) string
	gap      func(float64) string
	forecast func(...any) string
}

// newLabelers returns the label functions matching the color setting.
func newLabelers(cfg *contract.Config) labelers {
	if cfg.UseColors {
		return labelers{
			trend:    contract.GetColorTrendLabel,
			gap:      contract.GetColorGapLabel,
			forecast: contract.ForecastColor.SprintFunc(),
		}
	}
	return labelers{
		trend:    contract.GetPlainTrendLabel,
		gap:      contract.GetPlainGapLabel,
		forecast: fmt.Sprint,
	}
}

// rowKind labels a row as historical or projected.
func rowKind(isForecast bool) string {
	if isForecast {
		return "forecast"
	}
	return "actual"
}

// writeFooter prints the timing line shared by all tables.
func writeFooter(w io.Writer, name schema.Pipeline, cfg *contract.Config, duration time.Duration) {
	_, _ = fmt.Fprintf(w, "%s completed in %v. Reference time: %s. Cache backend: %s\n",
		name, duration, cfg.ReferenceTime.Format(contract.DateTimeFormat), cacheBackendName(cfg))
}

// cacheBackendName reports the effective cache backend for the footer.
func cacheBackendName(cfg *contract.Config) schema.DatabaseBackend {
	if cfg.CacheBackend == "" {
		return schema.NoneBackend
	}
	return cfg.CacheBackend
}
