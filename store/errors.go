package store

import "errors"

var (
	// ErrNotFound is returned when a single entity doesn't exist.
	ErrNotFound = errors.New("store: entity not found")

	// ErrBadCursor is returned when a continuation token cannot be decoded.
	ErrBadCursor = errors.New("store: malformed cursor")
)
