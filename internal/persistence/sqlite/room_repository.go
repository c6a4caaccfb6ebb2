package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
)

// CreateRoom inserts a new room.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	availability, err := encodeWindows(room.Availability)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rooms (id, number, type, capacity, availability, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		room.ID,
		room.Number,
		room.Type,
		room.Capacity,
		availability,
		room.CreatedAt.UTC().Format(time.RFC3339),
		room.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateRoom updates an existing room.
func (s *Store) UpdateRoom(ctx context.Context, room persistence.Room) error {
	availability, err := encodeWindows(room.Availability)
	if err != nil {
		return err
	}

	query := `
		UPDATE rooms
		SET number = ?, type = ?, capacity = ?, availability = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		room.Number,
		room.Type,
		room.Capacity,
		availability,
		room.UpdatedAt.UTC().Format(time.RFC3339),
		room.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	query := `
		SELECT id, number, type, capacity, availability, created_at, updated_at
		FROM rooms
		WHERE id = ?
	`
	return scanRoom(s.db.QueryRowContext(ctx, query, id))
}

// ListRooms returns every room ordered by number, then ID.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	query := `
		SELECT id, number, type, capacity, availability, created_at, updated_at
		FROM rooms
		ORDER BY number, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// DeleteRoom removes a room by ID.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var availability, createdAt, updatedAt string

	err := row.Scan(
		&room.ID,
		&room.Number,
		&room.Type,
		&room.Capacity,
		&availability,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Room{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	if room.Availability, err = decodeWindows(availability); err != nil {
		return persistence.Room{}, err
	}
	if room.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}
