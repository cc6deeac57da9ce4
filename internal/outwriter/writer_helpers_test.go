package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 1", 1, 2.345, "2.3"},
		{"precision 2", 2, 2.345, "2.35"},
		{"whole number", 1, 4, "4.0"},
		{"negative value", 2, -42.567, "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"skill": "Go", "demand": 3}))
	assert.Equal(t, "{\n  \"demand\": 3,\n  \"skill\": \"Go\"\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"skill", "note"}, func(w *csv.Writer) error {
		return w.Write([]string{"Go", "systems, services"})
	})
	require.NoError(t, err)
	assert.Equal(t, "skill,note\nGo,\"systems, services\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)
}

func TestWriteSeriesCSV(t *testing.T) {
	points := []schema.SeriesPoint{
		{Pipeline: schema.VolumePipeline, Series: schema.SeriesCount, Period: "2024-06-01", Index: 0, Value: 4},
		{Pipeline: schema.VolumePipeline, Series: schema.SeriesCount, Period: "2024-06-02", Index: 1, Value: 5.25, IsForecast: true},
	}
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeSeriesCSV(&buf, points, fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		seriesHeader,
		{"volume", "count", "2024-06-01", "0", "4.00", "false"},
		{"volume", "count", "2024-06-02", "1", "5.25", "true"},
	}, records)
}

func TestWriteResultDispatch(t *testing.T) {
	points := []schema.SeriesPoint{{Pipeline: schema.QualityPipeline, Series: "total", Period: "2024-06", Value: 3}}
	data := map[string]int{"total": 3}

	tests := []struct {
		output    schema.OutputMode
		wantTable bool
		check     func(t *testing.T, out []byte)
	}{
		{schema.TextOut, true, func(t *testing.T, out []byte) { assert.Equal(t, "table", string(out)) }},
		{schema.JSONOut, false, func(t *testing.T, out []byte) { assert.JSONEq(t, `{"total":3}`, string(out)) }},
		{schema.CSVOut, false, func(t *testing.T, out []byte) { assert.Contains(t, string(out), "quality,total,2024-06,0,3.0,false") }},
		{schema.ParquetOut, false, func(t *testing.T, out []byte) { assert.Equal(t, "PAR1", string(out[:4])) }},
	}

	for _, tt := range tests {
		t.Run(string(tt.output), func(t *testing.T) {
			cfg := &contract.Config{Output: tt.output, Precision: 1}
			called := false
			var buf bytes.Buffer
			err := writeResult(&buf, cfg, data, points, func(w io.Writer) error {
				called = true
				_, err := io.WriteString(w, "table")
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTable, called)
			tt.check(t, buf.Bytes())
		})
	}
}

func TestWriteResultTableError(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 1}
	err := writeResult(io.Discard, cfg, nil, nil, func(io.Writer) error { return assert.AnError })
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "error writing table output")
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(io.Writer) error {
			called = true
			return nil
		}, "Wrote")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "hirecast")
			return err
		}, "Wrote")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hirecast", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "Wrote")
		assert.Error(t, err)
	})
}
