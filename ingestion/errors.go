package ingestion

import "errors"

var (
	// ErrSourceRepositoryRequired is returned when a source repository is not provided.
	ErrSourceRepositoryRequired = errors.New("source repository required")

	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrGraphRepositoryRequired is returned when a graph repository is not provided.
	ErrGraphRepositoryRequired = errors.New("graph repository required")

	// ErrSplitterRequired is returned when a chunker is not provided.
	ErrSplitterRequired = errors.New("splitter required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNotOwner is returned when a caller tries to delete a source it does not own.
	ErrNotOwner = errors.New("caller does not own source")

	// ErrVectorIndexing is returned when the synchronous vector indexing step fails.
	ErrVectorIndexing = errors.New("vector indexing failed")
)
