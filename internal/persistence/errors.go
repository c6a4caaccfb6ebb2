package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a record collides with a uniqueness
	// constraint, e.g. an existing course code.
	ErrDuplicate = errors.New("persistence: duplicate record")
)
