// Package main provides a performance benchmarking tool for the Hirecast CLI.
// It seeds SQLite record databases of increasing size, then times every pipeline
// without a cache, with a cold cache and with a warm cache, and writes the
// averages to a CSV file for performance analysis and documentation.
//
// Prerequisites:
// - hirecast binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the seeded databases (default: a temp directory)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// referenceTime pins seeding and pipelines so every run reads the same window.
const referenceTime = "2024-06-15T12:00:00Z"

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    []int // application counts
	Pipelines   []string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "hirecast-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets:    []int{1000, 10000, 50000},
		Pipelines:   []string{"skill-gap", "quality", "volume", "skill-demand"},
	}

	if _, err := exec.LookPath("hirecast"); err != nil {
		fmt.Printf("Prerequisites check failed: hirecast binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// datasetEnv returns the environment that points hirecast at one dataset's files.
func datasetEnv(config BenchmarkConfig, count int) []string {
	dir := filepath.Join(config.WorkDir, strconv.Itoa(count))
	return append(os.Environ(),
		"HIRECAST_RECORDS_DB_CONNECT="+filepath.Join(dir, "records.db"),
		"HIRECAST_CACHE_DB_CONNECT="+filepath.Join(dir, "cache.db"),
		"HIRECAST_HISTORY_BACKEND=none",
	)
}

// runBenchmarks seeds each dataset and benchmarks every pipeline against it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, count := range config.Datasets {
		env := datasetEnv(config, count)
		if err := os.MkdirAll(filepath.Join(config.WorkDir, strconv.Itoa(count)), 0o755); err != nil {
			return nil, err
		}

		fmt.Printf("Seeding %d applications\n", count)
		if _, err := runHirecast(config, env, "seed", "--count", strconv.Itoa(count)); err != nil {
			return nil, fmt.Errorf("failed to seed %d applications: %w", count, err)
		}

		for _, pipeline := range config.Pipelines {
			results = append(results, runBenchmarkSuite(config, env, count, pipeline))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a pipeline
func runBenchmarkSuite(config BenchmarkConfig, env []string, count int, pipeline string) BenchmarkResult {
	dataset := strconv.Itoa(count)
	fmt.Printf("Running %s on %s applications\n", pipeline, dataset)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, env, pipeline, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs, starting from an empty cache
	if _, err := runHirecast(config, env, "cache", "clear"); err != nil {
		fmt.Printf("  Warning: failed to clear cache: %v\n", err)
	}
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     pipeline,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a pipeline multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, env []string, pipeline, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range numRuns {
		start := time.Now()
		output, err := runHirecast(config, env, pipeline, "--cache-backend", cacheBackend)
		if err == nil && strings.Contains(output, pipeline+" completed in") {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runHirecast runs one hirecast command with a timeout and returns its combined output.
func runHirecast(config BenchmarkConfig, env []string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "hirecast", append(args, "--now", referenceTime, "--color", "no")...)
	cmd.Env = env
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("hirecast_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"applications", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, pipeline := range config.Pipelines {
		fmt.Printf("%s:\n", pipeline)
		for _, result := range results {
			if result.Command == pipeline {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
