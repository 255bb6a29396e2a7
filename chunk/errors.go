package chunk

import "errors"

var (
	// ErrEmptyContent is returned when there is nothing to split.
	// Ingestion must fail fast on this before any store write.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidWindow is returned for a non-positive window size.
	ErrInvalidWindow = errors.New("window size must be positive")

	// ErrInvalidOverlap is returned when the overlap is negative or not
	// smaller than the window.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than the window")
)
