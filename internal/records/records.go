// Package records reads job applications and the role catalog from the recruiting database.
package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/guregu/null/v5"
	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/huangsam/hirecast/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names of the recruiting database.
const (
	applicationsTable = "applications"
	rolesTable        = "job_roles"
)

// connectTimeout bounds how long Open keeps pinging an unreachable server.
const connectTimeout = 30 * time.Second

// insertBatchSize limits the rows per INSERT statement.
const insertBatchSize = 200

// SQLRecordSource reads and writes recruiting records in a SQL database.
type SQLRecordSource struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	builder squirrel.StatementBuilderType
	roles   []schema.RoleRecord // catalog override from a roles file
}

var (
	_ contract.RecordSource = &SQLRecordSource{} // Compile-time check
	_ contract.RecordWriter = &SQLRecordSource{} // Compile-time check
)

// NewRecordSource opens the records database described by cfg and makes sure its tables exist.
// When cfg.RolesFile is set, the role catalog is read from that file instead of the database.
func NewRecordSource(ctx context.Context, cfg *contract.Config) (*SQLRecordSource, error) {
	src, err := Open(ctx, cfg.RecordsBackend, cfg.RecordsDBConnect)
	if err != nil {
		return nil, err
	}
	if err := src.EnsureSchema(ctx); err != nil {
		_ = src.Close()
		return nil, err
	}
	if cfg.RolesFile != "" {
		roles, err := LoadRoles(cfg.RolesFile)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		src.roles = roles
	}
	return src, nil
}

// Open connects to the records database, retrying the ping with exponential backoff.
func Open(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*SQLRecordSource, error) {
	driverName, err := contract.SQLDriverName(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRecordsDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s records database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = connectTimeout
	ping := func() error {
		if err := db.PingContext(ctx); err != nil {
			log.Debug().Err(err).Str("backend", string(backend)).Msg("Records database not ready")
			return err
		}
		return nil
	}
	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s records database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	builder := squirrel.StatementBuilder
	if backend == schema.PostgreSQLBackend {
		builder = builder.PlaceholderFormat(squirrel.Dollar)
	}

	return &SQLRecordSource{db: db, backend: backend, builder: builder}, nil
}

// EnsureSchema creates the applications and job_roles tables when they are missing.
func (s *SQLRecordSource) EnsureSchema(ctx context.Context) error {
	for _, stmt := range createTableQueries(s.backend) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create records tables: %w", err)
		}
	}
	return nil
}

// createTableQueries returns the DDL for the records tables on the given backend.
func createTableQueries(backend schema.DatabaseBackend) []string {
	switch backend {
	case schema.MySQLBackend:
		return []string{
			`CREATE TABLE IF NOT EXISTS applications (
				application_id VARCHAR(64) PRIMARY KEY,
				role_id VARCHAR(64) NOT NULL,
				applied_at VARCHAR(40) NOT NULL,
				matched_skills TEXT,
				ai_score DOUBLE,
				test_score DOUBLE,
				INDEX idx_applications_applied_at (applied_at)
			)`,
			`CREATE TABLE IF NOT EXISTS job_roles (
				role_id VARCHAR(64) PRIMARY KEY,
				role_name VARCHAR(255) NOT NULL,
				skills TEXT
			)`,
		}

	case schema.PostgreSQLBackend:
		return []string{
			`CREATE TABLE IF NOT EXISTS applications (
				application_id TEXT PRIMARY KEY,
				role_id TEXT NOT NULL,
				applied_at TEXT NOT NULL,
				matched_skills TEXT,
				ai_score DOUBLE PRECISION,
				test_score DOUBLE PRECISION
			)`,
			`CREATE INDEX IF NOT EXISTS idx_applications_applied_at ON applications (applied_at)`,
			`CREATE TABLE IF NOT EXISTS job_roles (
				role_id TEXT PRIMARY KEY,
				role_name TEXT NOT NULL,
				skills TEXT
			)`,
		}

	default: // SQLite
		return []string{
			`CREATE TABLE IF NOT EXISTS applications (
				application_id TEXT PRIMARY KEY,
				role_id TEXT NOT NULL,
				applied_at TEXT NOT NULL,
				matched_skills TEXT,
				ai_score REAL,
				test_score REAL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_applications_applied_at ON applications (applied_at)`,
			`CREATE TABLE IF NOT EXISTS job_roles (
				role_id TEXT PRIMARY KEY,
				role_name TEXT NOT NULL,
				skills TEXT
			)`,
		}
	}
}

// sinceBound returns the lower bound used against applied_at. Timestamps are stored as text in
// a few layouts and may carry a zone offset, so the bound is the bare date of the previous UTC
// day. It sorts before every layout of any instant at or after since, down to a -24h offset.
// Pipelines apply the exact cutoff afterwards.
func sinceBound(since time.Time) string {
	return since.UTC().AddDate(0, 0, -1).Format(time.DateOnly)
}

// ListApplications returns a superset of the applications submitted at or after since,
// ordered by their stored timestamp text. Rows from the day before since may be included.
func (s *SQLRecordSource) ListApplications(ctx context.Context, since time.Time) ([]schema.ApplicationRecord, error) {
	query, args, err := s.builder.
		Select("application_id", "role_id", "applied_at", "matched_skills", "ai_score", "test_score").
		From(applicationsTable).
		Where(squirrel.GtOrEq{"applied_at": sinceBound(since)}).
		OrderBy("applied_at", "application_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build applications query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var apps []schema.ApplicationRecord
	for rows.Next() {
		var app schema.ApplicationRecord
		if err := rows.Scan(&app.ApplicationID, &app.RoleID, &app.AppliedAt, &app.MatchedSkills, &app.AIScore, &app.TestScore); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}
	return apps, nil
}

// ListRoles returns the role catalog ordered by role id.
func (s *SQLRecordSource) ListRoles(ctx context.Context) ([]schema.RoleRecord, error) {
	if s.roles != nil {
		return s.roles, nil
	}

	query, args, err := s.builder.
		Select("role_id", "role_name", "skills").
		From(rolesTable).
		OrderBy("role_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build roles query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var roles []schema.RoleRecord
	for rows.Next() {
		var role schema.RoleRecord
		var skills null.String
		if err := rows.Scan(&role.ID, &role.Name, &skills); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		role.Skills = algo.ParseSkillList(skills)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}
	return roles, nil
}

// Fingerprint summarizes the applications visible after since and the size of the role catalog.
func (s *SQLRecordSource) Fingerprint(ctx context.Context, since time.Time) (string, error) {
	query, args, err := s.builder.
		Select("COUNT(*)", "COALESCE(MAX(applied_at), '')").
		From(applicationsTable).
		Where(squirrel.GtOrEq{"applied_at": sinceBound(since)}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build fingerprint query: %w", err)
	}

	var count int
	var newest string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count, &newest); err != nil {
		return "", fmt.Errorf("failed to fingerprint applications: %w", err)
	}

	roles, err := s.countRoles(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d|%s|%d", count, newest, roles), nil
}

// countRoles returns the number of catalog entries.
func (s *SQLRecordSource) countRoles(ctx context.Context) (int, error) {
	if s.roles != nil {
		return len(s.roles), nil
	}
	query, args, err := s.builder.Select("COUNT(*)").From(rolesTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build roles count query: %w", err)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}
	return count, nil
}

// GetStatus summarizes the contents of the records database.
func (s *SQLRecordSource) GetStatus(ctx context.Context) (schema.RecordsStatus, error) {
	status := schema.RecordsStatus{Backend: string(s.backend)}

	query, args, err := s.builder.
		Select(
			"COUNT(*)",
			"COALESCE(MIN(applied_at), '')",
			"COALESCE(MAX(applied_at), '')",
			"COUNT(test_score)",
			"COUNT(matched_skills)",
		).
		From(applicationsTable).
		ToSql()
	if err != nil {
		return status, fmt.Errorf("failed to build status query: %w", err)
	}
	row := s.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&status.Applications, &status.OldestAppliedAt, &status.NewestAppliedAt,
		&status.WithTestScores, &status.WithMatchedSkill); err != nil {
		return status, fmt.Errorf("failed to get records status: %w", err)
	}

	if status.Roles, err = s.countRoles(ctx); err != nil {
		return status, err
	}
	return status, nil
}

// InsertRoles replaces the catalog entries with the same role ids.
func (s *SQLRecordSource) InsertRoles(ctx context.Context, roles []schema.RoleRecord) error {
	if len(roles) == 0 {
		return nil
	}
	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		del := s.builder.Delete(rolesTable).Where(squirrel.Eq{"role_id": ids})
		if _, err := del.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to delete roles: %w", err)
		}
		insert := s.builder.Insert(rolesTable).Columns("role_id", "role_name", "skills")
		for _, r := range roles {
			insert = insert.Values(r.ID, r.Name, strings.Join(r.Skills, ", "))
		}
		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert roles: %w", err)
		}
		return nil
	})
}

// InsertApplications stores applications in batches within one transaction.
func (s *SQLRecordSource) InsertApplications(ctx context.Context, apps []schema.ApplicationRecord) error {
	if len(apps) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(apps); start += insertBatchSize {
			end := min(start+insertBatchSize, len(apps))
			insert := s.builder.Insert(applicationsTable).
				Columns("application_id", "role_id", "applied_at", "matched_skills", "ai_score", "test_score")
			for _, a := range apps[start:end] {
				insert = insert.Values(a.ApplicationID, a.RoleID, a.AppliedAt, a.MatchedSkills, a.AIScore, a.TestScore)
			}
			if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("failed to insert applications: %w", err)
			}
		}
		return nil
	})
}

// withTx runs fn inside a transaction, rolling back when it fails.
func (s *SQLRecordSource) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying DB connection.
func (s *SQLRecordSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
