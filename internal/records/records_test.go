package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSource(t *testing.T) *SQLRecordSource {
	t.Helper()
	ctx := context.Background()
	src, err := Open(ctx, schema.SQLiteBackend, filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	require.NoError(t, src.EnsureSchema(ctx))
	t.Cleanup(func() { _ = src.Close() })
	return src
}

var testRoles = []schema.RoleRecord{
	{ID: "soc-analyst", Name: "SOC Analyst", Skills: []string{"SIEM", "Splunk"}},
	{ID: "cloud-engineer", Name: "Cloud Engineer", Skills: []string{"AWS", "Terraform", "Go"}},
}

var testApps = []schema.ApplicationRecord{
	{ApplicationID: "a3", RoleID: "soc-analyst", AppliedAt: "2024-03-05T09:00:00Z", MatchedSkills: null.StringFrom("SIEM"), AIScore: null.FloatFrom(81)},
	{ApplicationID: "a1", RoleID: "cloud-engineer", AppliedAt: "2024-01-10T10:00:00Z", MatchedSkills: null.StringFrom("AWS, Go"), AIScore: null.FloatFrom(70), TestScore: null.FloatFrom(77.5)},
	{ApplicationID: "a2", RoleID: "cloud-engineer", AppliedAt: "2024-03-01T08:00:00Z", AIScore: null.FloatFrom(55)},
}

func TestSQLRecordSource(t *testing.T) {
	ctx := context.Background()
	src := openTestSource(t)
	require.NoError(t, src.InsertRoles(ctx, testRoles))
	require.NoError(t, src.InsertApplications(ctx, testApps))

	t.Run("list applications since", func(t *testing.T) {
		// Same-day records are kept; pipelines apply the exact cutoff
		since := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		apps, err := src.ListApplications(ctx, since)
		require.NoError(t, err)
		require.Len(t, apps, 2)
		assert.Equal(t, "a2", apps[0].ApplicationID)
		assert.Equal(t, "a3", apps[1].ApplicationID)
		assert.False(t, apps[0].MatchedSkills.Valid)
		assert.False(t, apps[0].TestScore.Valid)
		assert.Equal(t, "SIEM", apps[1].MatchedSkills.String)
	})

	t.Run("nullable columns round trip", func(t *testing.T) {
		apps, err := src.ListApplications(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, apps, 3)
		assert.Equal(t, "a1", apps[0].ApplicationID)
		assert.Equal(t, null.FloatFrom(77.5), apps[0].TestScore)
		assert.Equal(t, null.FloatFrom(70), apps[0].AIScore)
		assert.Equal(t, "2024-01-10T10:00:00Z", apps[0].AppliedAt)
	})

	t.Run("list roles", func(t *testing.T) {
		roles, err := src.ListRoles(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 2)
		assert.Equal(t, "cloud-engineer", roles[0].ID)
		assert.Equal(t, []string{"AWS", "Terraform", "Go"}, roles[0].Skills)
		assert.Equal(t, "SOC Analyst", roles[1].Name)
	})

	t.Run("fingerprint tracks new rows", func(t *testing.T) {
		since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		before, err := src.Fingerprint(ctx, since)
		require.NoError(t, err)
		assert.Equal(t, "2|2024-03-05T09:00:00Z|2", before)

		again, err := src.Fingerprint(ctx, since)
		require.NoError(t, err)
		assert.Equal(t, before, again)

		require.NoError(t, src.InsertApplications(ctx, []schema.ApplicationRecord{
			{ApplicationID: "a4", RoleID: "soc-analyst", AppliedAt: "2024-03-06T09:00:00Z", AIScore: null.FloatFrom(90)},
		}))
		after, err := src.Fingerprint(ctx, since)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("status", func(t *testing.T) {
		status, err := src.GetStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.Equal(t, 4, status.Applications)
		assert.Equal(t, 2, status.Roles)
		assert.Equal(t, "2024-01-10T10:00:00Z", status.OldestAppliedAt)
		assert.Equal(t, "2024-03-06T09:00:00Z", status.NewestAppliedAt)
		assert.Equal(t, 1, status.WithTestScores)
		assert.Equal(t, 2, status.WithMatchedSkill)
	})
}

func TestListApplicationsKeepsOffsetTimestamps(t *testing.T) {
	ctx := context.Background()
	src := openTestSource(t)
	require.NoError(t, src.InsertApplications(ctx, []schema.ApplicationRecord{
		// 2024-01-10T01:00Z, stored with a negative offset
		{ApplicationID: "late-local", RoleID: "soc-analyst", AppliedAt: "2024-01-09T20:00:00-05:00", AIScore: null.FloatFrom(70)},
		{ApplicationID: "too-old", RoleID: "soc-analyst", AppliedAt: "2024-01-08T23:00:00Z", AIScore: null.FloatFrom(70)},
	}))

	since := time.Date(2024, 1, 10, 0, 30, 0, 0, time.UTC)
	apps, err := src.ListApplications(ctx, since)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "late-local", apps[0].ApplicationID)

	fingerprint, err := src.Fingerprint(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, "1|2024-01-09T20:00:00-05:00|0", fingerprint)
}

func TestInsertRolesReplacesExisting(t *testing.T) {
	ctx := context.Background()
	src := openTestSource(t)
	require.NoError(t, src.InsertRoles(ctx, testRoles))
	require.NoError(t, src.InsertRoles(ctx, []schema.RoleRecord{
		{ID: "soc-analyst", Name: "Senior SOC Analyst", Skills: []string{"SIEM"}},
	}))

	roles, err := src.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Senior SOC Analyst", roles[1].Name)
	assert.Equal(t, []string{"SIEM"}, roles[1].Skills)
}

func TestInsertEmptyBatches(t *testing.T) {
	ctx := context.Background()
	src := openTestSource(t)
	assert.NoError(t, src.InsertRoles(ctx, nil))
	assert.NoError(t, src.InsertApplications(ctx, nil))

	apps, err := src.ListApplications(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestNewRecordSourceWithRolesFile(t *testing.T) {
	dir := t.TempDir()
	rolesFile := filepath.Join(dir, "roles.yaml")
	require.NoError(t, os.WriteFile(rolesFile, []byte(`
roles:
  - id: data-engineer
    name: Data Engineer
    skills: [SQL, Spark]
`), 0o644))

	cfg := &contract.Config{
		RecordsBackend:   schema.SQLiteBackend,
		RecordsDBConnect: filepath.Join(dir, "records.db"),
		RolesFile:        rolesFile,
	}
	src, err := NewRecordSource(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	roles, err := src.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, []string{"SQL", "Spark"}, roles[0].Skills)

	fingerprint, err := src.Fingerprint(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "0||1", fingerprint)
}

func TestNewRecordSourceMissingRolesFile(t *testing.T) {
	cfg := &contract.Config{
		RecordsBackend:   schema.SQLiteBackend,
		RecordsDBConnect: filepath.Join(t.TempDir(), "records.db"),
		RolesFile:        filepath.Join(t.TempDir(), "missing.yaml"),
	}
	_, err := NewRecordSource(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenUnsupportedBackend(t *testing.T) {
	_, err := Open(context.Background(), schema.NoneBackend, "")
	assert.Error(t, err)
}
