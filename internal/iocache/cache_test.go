package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/hirecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetStores clears the global manager so each test can initialize it again.
func resetStores(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager.set(nil, nil)
	t.Cleanup(func() {
		CloseStores()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager.set(nil, nil)
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite cache and history", func(t *testing.T) {
		resetStores(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		historyPath := filepath.Join(dir, "history.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, historyPath)
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetResultStore(), "result store should be set")
		assert.NotNil(t, Manager.GetHistoryStore(), "history store should be set")

		CloseStores()
		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "cache database file should be created")
		_, err = os.Stat(historyPath)
		assert.NoError(t, err, "history database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetStores(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		err1 := InitStores(schema.SQLiteBackend, cachePath, schema.NoneBackend, "")
		store := Manager.GetResultStore()
		err2 := InitStores(schema.NoneBackend, "", schema.NoneBackend, "")

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Same(t, store, Manager.GetResultStore(), "second call should not replace stores")
	})

	t.Run("none backends leave stores unset", func(t *testing.T) {
		resetStores(t)

		require.NoError(t, InitStores(schema.NoneBackend, "", "", ""))
		assert.Nil(t, Manager.GetResultStore())
		assert.Nil(t, Manager.GetHistoryStore())
	})

	t.Run("unsupported history backend", func(t *testing.T) {
		resetStores(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")

		err := InitStores(schema.SQLiteBackend, cachePath, schema.DatabaseBackend("oracle"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize run history")
		assert.Nil(t, Manager.GetResultStore(), "no store should be published on failure")
	})

	t.Run("unsupported cache backend", func(t *testing.T) {
		resetStores(t)

		err := InitStores(schema.DatabaseBackend("oracle"), "", schema.NoneBackend, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize result caching")
	})
}

func TestCloseStoresWithoutInit(t *testing.T) {
	resetStores(t)
	assert.NotPanics(t, CloseStores)
	assert.NotPanics(t, CloseStores, "closing twice should be safe")
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{name: "valid simple name", tableName: "forecast_cache"},
		{name: "valid name with numbers", tableName: "cache_123"},
		{name: "valid name starting with underscore", tableName: "_cache"},
		{name: "valid mixed case", tableName: "ForecastCache_1"},
		{name: "empty name", tableName: "", wantErr: true},
		{name: "starts with number", tableName: "1_cache", wantErr: true},
		{name: "contains dash", tableName: "forecast-cache", wantErr: true},
		{name: "contains space", tableName: "forecast cache", wantErr: true},
		{name: "contains dot", tableName: "main.cache", wantErr: true},
		{name: "sql injection attempt", tableName: "cache'; DROP TABLE users; --", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"forecast_cache"`},
		{schema.MySQLBackend, "`forecast_cache`"},
		{schema.PostgreSQLBackend, `"forecast_cache"`},
		{schema.NoneBackend, `"forecast_cache"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("forecast_cache", tt.backend))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "$1", placeholder(schema.PostgreSQLBackend, 1))
	assert.Equal(t, "$4", placeholder(schema.PostgreSQLBackend, 4))
}

func TestQueryBuilder(t *testing.T) {
	query, args, err := queryBuilder(schema.PostgreSQLBackend).
		Insert("t").Columns("a", "b").Values(1, 2).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t (a,b) VALUES ($1,$2)", query)
	assert.Equal(t, []any{1, 2}, args)

	query, _, err = queryBuilder(schema.MySQLBackend).
		Insert("t").Columns("a", "b").Values(1, 2).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t (a,b) VALUES (?,?)", query)
}

func TestUpsertQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (cache_key) DO UPDATE"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{tableName: resultTable, backend: tt.backend}
			query := store.getUpsertQuery()
			assert.Contains(t, query, tt.contains)
			assert.Contains(t, query, quoteTableName(resultTable, tt.backend))
		})
	}
}

func TestCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery(resultTable, schema.SQLiteBackend), "cache_value BLOB")
	assert.Contains(t, getCreateTableQuery(resultTable, schema.MySQLBackend), "cache_value LONGBLOB")
	assert.Contains(t, getCreateTableQuery(resultTable, schema.PostgreSQLBackend), "cache_value BYTEA")
}

func TestCacheStoreOperations(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		store, err := NewCacheStore(resultTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set("key", []byte(`{"pipeline":"volume"}`), 1, 1700000000))

		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.JSONEq(t, `{"pipeline":"volume"}`, string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("upsert replaces value", func(t *testing.T) {
		store, err := NewCacheStore(resultTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Set("key", []byte("old"), 1, 1000))
		require.NoError(t, store.Set("key", []byte("new"), 2, 2000))

		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), ts)
	})

	t.Run("missing key", func(t *testing.T) {
		store, err := NewCacheStore(resultTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("invalid table name", func(t *testing.T) {
		_, err := NewCacheStore("bad-name", schema.SQLiteBackend, ":memory:")
		assert.Error(t, err)
	})

	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewCacheStore(resultTable, schema.DatabaseBackend("oracle"), "")
		assert.Error(t, err)
	})

	t.Run("none backend is a no-op", func(t *testing.T) {
		store, err := NewCacheStore(resultTable, schema.NoneBackend, "")
		require.NoError(t, err)

		assert.NoError(t, store.Set("key", []byte("value"), 1, 1000))
		_, _, _, err = store.Get("key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, store.Close())
	})
}

func TestCacheStoreGetStatus(t *testing.T) {
	t.Run("sqlite with data", func(t *testing.T) {
		store, err := NewCacheStore(resultTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		for key, ts := range map[string]int64{"a": 1000, "b": 2000, "c": 1500} {
			require.NoError(t, store.Set(key, []byte(key), 1, ts))
		}

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 3, status.TotalEntries)
		assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})

	t.Run("sqlite empty", func(t *testing.T) {
		store, err := NewCacheStore(resultTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 0, status.TotalEntries)
		assert.True(t, status.LastEntryTime.IsZero())
		assert.Equal(t, int64(0), status.TableSizeBytes)
	})

	t.Run("none backend", func(t *testing.T) {
		store, err := NewCacheStore(resultTable, schema.NoneBackend, "")
		require.NoError(t, err)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		assert.False(t, status.Connected)
	})
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(resultTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "database file should be removed")
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "missing.db"), ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.DatabaseBackend("oracle"), "", ""))
	})
}

func TestClearHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	assert.Error(t, ClearHistory(schema.DatabaseBackend("oracle"), "", ""))
}

func TestCacheStoreManagerConcurrency(t *testing.T) {
	mgr := &CacheStoreManager{}
	store, err := NewCacheStore(resultTable, schema.NoneBackend, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				mgr.set(store, nil)
				return
			}
			_ = mgr.GetResultStore()
			_ = mgr.GetHistoryStore()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, store, mgr.GetResultStore())
	assert.Nil(t, mgr.GetHistoryStore())
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    2,
		LastEntryTime:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local),
		OldestEntryTime: time.Date(2024, 6, 14, 8, 30, 0, 0, time.Local),
		TableSizeBytes:  8192,
	})

	out := buf.String()
	assert.Contains(t, out, "Cache Backend: sqlite")
	assert.Contains(t, out, "Total Entries: 2")
	assert.Contains(t, out, "Last Entry: 2024-06-15 12:00:00")
	assert.Contains(t, out, "Oldest Entry: 2024-06-14 08:30:00")
	assert.Contains(t, out, "Table Size: 8192 bytes")

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())
}

func TestPrintRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintRecordsStatus(&buf, schema.RecordsStatus{
		Backend:          "sqlite",
		Applications:     3,
		Roles:            2,
		OldestAppliedAt:  "2024-01-02T10:00:00Z",
		NewestAppliedAt:  "2024-03-05T09:00:00Z",
		WithTestScores:   2,
		WithMatchedSkill: 3,
	})

	out := buf.String()
	assert.Contains(t, out, "Roles: 2")
	assert.Contains(t, out, "Applications: 3")
	assert.Contains(t, out, "Newest Application: 2024-03-05T09:00:00Z")
	assert.Contains(t, out, "With Test Scores: 2")

	buf.Reset()
	PrintRecordsStatus(&buf, schema.RecordsStatus{Backend: "sqlite", Roles: 6})
	assert.NotContains(t, buf.String(), "Oldest Application")
}
