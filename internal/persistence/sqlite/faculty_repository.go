package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
)

// CreateFaculty inserts a new faculty member.
func (s *Store) CreateFaculty(ctx context.Context, faculty persistence.Faculty) error {
	availability, err := encodeWindows(faculty.Availability)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO faculty (id, name, email, department, availability, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		faculty.ID,
		faculty.Name,
		faculty.Email,
		faculty.Department,
		availability,
		faculty.CreatedAt.UTC().Format(time.RFC3339),
		faculty.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateFaculty updates an existing faculty member.
func (s *Store) UpdateFaculty(ctx context.Context, faculty persistence.Faculty) error {
	availability, err := encodeWindows(faculty.Availability)
	if err != nil {
		return err
	}

	query := `
		UPDATE faculty
		SET name = ?, email = ?, department = ?, availability = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		faculty.Name,
		faculty.Email,
		faculty.Department,
		availability,
		faculty.UpdatedAt.UTC().Format(time.RFC3339),
		faculty.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// GetFaculty retrieves a faculty member by ID.
func (s *Store) GetFaculty(ctx context.Context, id string) (persistence.Faculty, error) {
	query := `
		SELECT id, name, email, department, availability, created_at, updated_at
		FROM faculty
		WHERE id = ?
	`
	return scanFaculty(s.db.QueryRowContext(ctx, query, id))
}

// ListFaculty returns every faculty member ordered by name, then ID.
func (s *Store) ListFaculty(ctx context.Context) ([]persistence.Faculty, error) {
	query := `
		SELECT id, name, email, department, availability, created_at, updated_at
		FROM faculty
		ORDER BY name, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Faculty
	for rows.Next() {
		faculty, err := scanFaculty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, faculty)
	}
	return out, rows.Err()
}

// DeleteFaculty removes a faculty member by ID.
func (s *Store) DeleteFaculty(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM faculty WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFaculty(row rowScanner) (persistence.Faculty, error) {
	var faculty persistence.Faculty
	var availability, createdAt, updatedAt string

	err := row.Scan(
		&faculty.ID,
		&faculty.Name,
		&faculty.Email,
		&faculty.Department,
		&availability,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Faculty{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Faculty{}, mapError(err)
	}

	if faculty.Availability, err = decodeWindows(availability); err != nil {
		return persistence.Faculty{}, err
	}
	if faculty.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Faculty{}, err
	}
	if faculty.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Faculty{}, err
	}
	return faculty, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", raw, err)
	}
	return t, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
