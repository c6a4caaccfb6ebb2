package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
)

const courseColumns = `id, code, name, department, year, credits, sessions, faculty_id, enrollment, created_at, updated_at`

// CreateCourse inserts a new course.
func (s *Store) CreateCourse(ctx context.Context, course persistence.Course) error {
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		course.ID,
		course.Code,
		course.Name,
		course.Department,
		course.Year,
		course.Credits,
		course.Sessions,
		course.FacultyID,
		course.Enrollment,
		course.CreatedAt.UTC().Format(time.RFC3339),
		course.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateCourse updates an existing course.
func (s *Store) UpdateCourse(ctx context.Context, course persistence.Course) error {
	query := `
		UPDATE courses
		SET code = ?, name = ?, department = ?, year = ?, credits = ?,
		    sessions = ?, faculty_id = ?, enrollment = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		course.Code,
		course.Name,
		course.Department,
		course.Year,
		course.Credits,
		course.Sessions,
		course.FacultyID,
		course.Enrollment,
		course.UpdatedAt.UTC().Format(time.RFC3339),
		course.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// GetCourse retrieves a course by ID.
func (s *Store) GetCourse(ctx context.Context, id string) (persistence.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`
	return scanCourse(s.db.QueryRowContext(ctx, query, id))
}

// GetCourseByCode retrieves a course by its code, case-insensitively.
func (s *Store) GetCourseByCode(ctx context.Context, code string) (persistence.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE code = ?`
	return scanCourse(s.db.QueryRowContext(ctx, query, code))
}

// ListCourses returns every course ordered by code, then ID.
func (s *Store) ListCourses(ctx context.Context) ([]persistence.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY code, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, course)
	}
	return out, rows.Err()
}

// DeleteCourse removes a course by ID.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

func scanCourse(row rowScanner) (persistence.Course, error) {
	var course persistence.Course
	var createdAt, updatedAt string

	err := row.Scan(
		&course.ID,
		&course.Code,
		&course.Name,
		&course.Department,
		&course.Year,
		&course.Credits,
		&course.Sessions,
		&course.FacultyID,
		&course.Enrollment,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Course{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Course{}, mapError(err)
	}

	if course.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Course{}, err
	}
	if course.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Course{}, err
	}
	return course, nil
}
