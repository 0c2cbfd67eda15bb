package repository

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrVersionConflict is returned when a write expected a version that is
	// no longer current. The caller's view is stale; nothing was applied.
	ErrVersionConflict = errors.New("version conflict")
)
