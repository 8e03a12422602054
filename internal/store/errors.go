package store

import "errors"

var (
	// ErrNotFound is returned when a contest, entry or user does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidPage is returned for a negative page or non-positive limit.
	ErrInvalidPage = errors.New("store: invalid page or limit")

	// ErrUnsupportedDriver is returned by Open for unknown database types.
	ErrUnsupportedDriver = errors.New("store: unsupported database driver")
)
