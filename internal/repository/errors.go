package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a version compare-and-swap fails or a
	// state-guarding index rejects the write
	ErrConflict = errors.New("conflict: row was modified concurrently")

	// ErrDuplicate is returned when a natural key is already taken
	ErrDuplicate = errors.New("duplicate key")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
