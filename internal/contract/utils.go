package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/hirecast/schema"
	"github.com/rs/zerolog/log"
)

// Color variables for console output.
var (
	UpColor       = color.New(color.FgGreen, color.Bold) // UpColor marks growing demand.
	DownColor     = color.New(color.FgRed)               // DownColor marks shrinking demand.
	StableColor   = color.New(color.FgCyan)              // StableColor marks flat demand.
	ForecastColor = color.New(color.FgMagenta)           // ForecastColor marks projected rows.
	ShortageColor = color.New(color.FgYellow, color.Bold)
)

// GetPlainTrendLabel returns a plain text arrow for a trend direction.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainTrendLabel(trend schema.TrendDirection) string {
	switch trend {
	case schema.TrendUp:
		return "▲ up"
	case schema.TrendDown:
		return "▼ down"
	default:
		return "● stable"
	}
}

// GetColorTrendLabel returns a colored trend label for console output (table).
func GetColorTrendLabel(trend schema.TrendDirection) string {
	text := GetPlainTrendLabel(trend)
	switch trend {
	case schema.TrendUp:
		return UpColor.Sprint(text)
	case schema.TrendDown:
		return DownColor.Sprint(text)
	default:
		return StableColor.Sprint(text)
	}
}

// GetPlainGapLabel classifies a supply/demand gap ratio.
func GetPlainGapLabel(ratio float64) string {
	switch {
	case ratio >= 99:
		return "No supply"
	case ratio >= 2:
		return "Shortage"
	case ratio > 1:
		return "Tight"
	default:
		return "Covered"
	}
}

// GetColorGapLabel returns a colored gap label for console output (table).
func GetColorGapLabel(ratio float64) string {
	text := GetPlainGapLabel(ratio)
	switch text {
	case "No supply":
		return DownColor.Sprint(text)
	case "Shortage":
		return ShortageColor.Sprint(text)
	case "Tight":
		return StableColor.Sprint(text)
	default:
		return UpColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.Fatal().Err(err).Msg(msg)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	log.Warn().Err(err).Msg(msg)
}

// homeFile resolves name in the user's home directory, falling back to the working directory.
func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return homeFile(".hirecast_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history storage.
func GetHistoryDBFilePath() string {
	return homeFile(".hirecast_history.db")
}

// GetRecordsDBFilePath returns the default path to the SQLite recruiting database.
func GetRecordsDBFilePath() string {
	return homeFile(".hirecast_records.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SQLDriverName returns the database/sql driver registered for a backend.
func SQLDriverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql or postgresql", backend)
	}
}
