package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
)

// SaveTimetable stores a generated timetable, replacing any previous version
// for the same (semester, department, year) key. The header row and the
// assignment rows are written in one transaction.
func (s *Store) SaveTimetable(ctx context.Context, timetable persistence.Timetable) error {
	constraints, err := encodeConstraints(timetable.Constraints)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM timetables WHERE semester = ? AND department = ? AND year = ?`,
			timetable.Semester, timetable.Department, timetable.Year,
		)
		if err != nil {
			return mapError(err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO timetables (semester, department, year, version, constraints, generated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			timetable.Semester,
			timetable.Department,
			timetable.Year,
			timetable.Version,
			constraints,
			timetable.GeneratedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}

		for _, a := range timetable.Assignments {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO assignments (semester, department, year, course_id, faculty_id, room_id, day, slot)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
				timetable.Semester,
				timetable.Department,
				timetable.Year,
				a.CourseID,
				a.FacultyID,
				a.RoomID,
				a.Day,
				a.Slot,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetTimetable retrieves the stored timetable for a key together with its
// assignments.
func (s *Store) GetTimetable(ctx context.Context, semester, department string, year int) (persistence.Timetable, error) {
	query := `
		SELECT semester, department, year, version, constraints, generated_at
		FROM timetables
		WHERE semester = ? AND department = ? AND year = ?
	`
	timetable, err := scanTimetable(s.db.QueryRowContext(ctx, query, semester, department, year))
	if err != nil {
		return persistence.Timetable{}, err
	}
	if timetable.Assignments, err = s.loadAssignments(ctx, semester, department, year); err != nil {
		return persistence.Timetable{}, err
	}
	return timetable, nil
}

// ListTimetables returns every stored timetable ordered by semester,
// department, then year.
func (s *Store) ListTimetables(ctx context.Context) ([]persistence.Timetable, error) {
	query := `
		SELECT semester, department, year, version, constraints, generated_at
		FROM timetables
		ORDER BY semester, department, year
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Timetable
	for rows.Next() {
		timetable, err := scanTimetable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, timetable)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Assignments, err = s.loadAssignments(ctx, out[i].Semester, out[i].Department, out[i].Year)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeleteTimetable removes a stored timetable; assignments cascade.
func (s *Store) DeleteTimetable(ctx context.Context, semester, department string, year int) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM timetables WHERE semester = ? AND department = ? AND year = ?`,
		semester, department, year,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

func (s *Store) loadAssignments(ctx context.Context, semester, department string, year int) ([]persistence.Assignment, error) {
	query := `
		SELECT course_id, faculty_id, room_id, day, slot
		FROM assignments
		WHERE semester = ? AND department = ? AND year = ?
		ORDER BY day, slot, course_id, room_id
	`
	rows, err := s.db.QueryContext(ctx, query, semester, department, year)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Assignment
	for rows.Next() {
		var a persistence.Assignment
		if err := rows.Scan(&a.CourseID, &a.FacultyID, &a.RoomID, &a.Day, &a.Slot); err != nil {
			return nil, mapError(err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanTimetable(row rowScanner) (persistence.Timetable, error) {
	var timetable persistence.Timetable
	var constraints, generatedAt string

	err := row.Scan(
		&timetable.Semester,
		&timetable.Department,
		&timetable.Year,
		&timetable.Version,
		&constraints,
		&generatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Timetable{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Timetable{}, mapError(err)
	}

	if timetable.Constraints, err = decodeConstraints(constraints); err != nil {
		return persistence.Timetable{}, err
	}
	if timetable.GeneratedAt, err = parseTimestamp(generatedAt); err != nil {
		return persistence.Timetable{}, err
	}
	return timetable, nil
}

func encodeConstraints(names []string) (string, error) {
	if len(names) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode constraints: %w", err)
	}
	return string(raw), nil
}

func decodeConstraints(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("sqlite: decode constraints: %w", err)
	}
	return names, nil
}
