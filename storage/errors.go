package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrBackendRequired is returned when a repository is constructed without a backend.
	ErrBackendRequired = errors.New("backend required")

	// ErrCollectionRequired is returned when a vector operation names no collection.
	ErrCollectionRequired = errors.New("collection required")
)
