package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration pairs an ordinal version with the statements it applies.
// Versions must stay append-only; applied versions are recorded in
// schema_migrations and never re-run.
type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS faculty (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				department TEXT NOT NULL,
				availability TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS rooms (
				id TEXT PRIMARY KEY,
				number TEXT NOT NULL,
				type TEXT NOT NULL,
				capacity INTEGER NOT NULL,
				availability TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS courses (
				id TEXT PRIMARY KEY,
				code TEXT NOT NULL COLLATE NOCASE UNIQUE,
				name TEXT NOT NULL,
				department TEXT NOT NULL,
				year INTEGER NOT NULL,
				credits INTEGER NOT NULL,
				sessions INTEGER NOT NULL,
				faculty_id TEXT NOT NULL,
				enrollment INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS timetables (
				semester TEXT NOT NULL,
				department TEXT NOT NULL,
				year INTEGER NOT NULL,
				version INTEGER NOT NULL,
				constraints TEXT NOT NULL DEFAULT '[]',
				generated_at TEXT NOT NULL,
				PRIMARY KEY (semester, department, year)
			)`,
			`CREATE TABLE IF NOT EXISTS assignments (
				semester TEXT NOT NULL,
				department TEXT NOT NULL,
				year INTEGER NOT NULL,
				course_id TEXT NOT NULL,
				faculty_id TEXT NOT NULL,
				room_id TEXT NOT NULL,
				day INTEGER NOT NULL,
				slot INTEGER NOT NULL,
				FOREIGN KEY (semester, department, year)
					REFERENCES timetables (semester, department, year)
					ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_assignments_key
				ON assignments (semester, department, year)`,
		},
	},
}

// Migrate applies every pending migration in order, inside one transaction
// per version.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: create migration table: %w", err)
	}

	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("sqlite: apply migration %d: %w", m.version, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))`,
				m.version,
			)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("sqlite: scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
