// Package sqlite implements the persistence repositories on SQLite via the
// pure-Go modernc.org driver, giving the engine a durable store without
// CGO.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/example/academic-scheduler/internal/persistence"
)

// Store wraps a SQLite database handle and implements persistence.Store.
type Store struct {
	db *sql.DB
}

// Open connects to the database addressed by dsn and configures the
// connection for serialized access.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	// The driver serializes writes; a single connection avoids SQLITE_BUSY
	// on concurrent repository calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}

// mapError converts driver errors to the persistence sentinels callers
// match on.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE") {
		return persistence.ErrDuplicate
	}
	return err
}

func encodeWindows(windows []persistence.Window) (string, error) {
	if len(windows) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(windows)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode availability: %w", err)
	}
	return string(raw), nil
}

func decodeWindows(raw string) ([]persistence.Window, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var windows []persistence.Window
	if err := json.Unmarshal([]byte(raw), &windows); err != nil {
		return nil, fmt.Errorf("sqlite: decode availability: %w", err)
	}
	return windows, nil
}
