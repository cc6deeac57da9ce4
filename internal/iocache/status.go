package iocache

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/hirecast/schema"
)

// statusTimeFormat is the timestamp layout of status reports.
const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintHistoryStatus prints run history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Total Points: %d\n", status.TotalPoints)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintRecordsStatus prints the contents summary of the records database.
func PrintRecordsStatus(w io.Writer, status schema.RecordsStatus) {
	_, _ = fmt.Fprintf(w, "Records Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Roles: %d\n", status.Roles)
	_, _ = fmt.Fprintf(w, "Applications: %d\n", status.Applications)
	if status.Applications > 0 {
		_, _ = fmt.Fprintf(w, "Oldest Application: %s\n", status.OldestAppliedAt)
		_, _ = fmt.Fprintf(w, "Newest Application: %s\n", status.NewestAppliedAt)
		_, _ = fmt.Fprintf(w, "With Test Scores: %d\n", status.WithTestScores)
		_, _ = fmt.Fprintf(w, "With Matched Skills: %d\n", status.WithMatchedSkill)
	}
}
