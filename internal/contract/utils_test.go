package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/hirecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainGapLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"oversupplied", 0.4, "Covered"},
		{"exactly balanced", 1.0, "Covered"},
		{"slightly short", 1.5, "Tight"},
		{"exactly double", 2.0, "Shortage"},
		{"no supply cap", 99, "No supply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainGapLabel(tt.input))
		})
	}
}

func TestGetColorLabels(t *testing.T) {
	for _, ratio := range []float64{0.5, 1.5, 3, 99} {
		assert.Contains(t, GetColorGapLabel(ratio), GetPlainGapLabel(ratio))
	}
	for _, trend := range []schema.TrendDirection{schema.TrendUp, schema.TrendDown, schema.TrendStable} {
		assert.Contains(t, GetColorTrendLabel(trend), GetPlainTrendLabel(trend))
	}
}

func TestGetPlainTrendLabel(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetPlainTrendLabel(schema.TrendUp), "up"))
	assert.True(t, strings.HasSuffix(GetPlainTrendLabel(schema.TrendDown), "down"))
	assert.True(t, strings.HasSuffix(GetPlainTrendLabel(schema.TrendStable), "stable"))
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path is stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		require.NoError(t, f.Close())
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := SelectOutputFile(filepath.Join(t.TempDir(), "missing", "out.json"))
		assert.Error(t, err)
	})
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".hirecast_cache.db"))
	assert.True(t, strings.HasSuffix(GetHistoryDBFilePath(), ".hirecast_history.db"))
	assert.True(t, strings.HasSuffix(GetRecordsDBFilePath(), ".hirecast_records.db"))
	assert.NotEqual(t, GetCacheDBFilePath(), GetHistoryDBFilePath())
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{" 0 ", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSQLDriverName(t *testing.T) {
	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := SQLDriverName(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := SQLDriverName(schema.NoneBackend)
	assert.Error(t, err)
}
