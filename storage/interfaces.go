package storage

import (
	"context"

	"github.com/poiesic/loom/core"
)

// SourceRepository provides operations for source records and their index
// metadata rows. Implementations must be thread-safe.
type SourceRepository interface {
	// CreateSource stores a new source record.
	// Returns core.ErrInvalidSource if the record fails validation.
	CreateSource(ctx context.Context, source *core.Source) error

	// GetSource retrieves a source by ID.
	// Returns ErrNotFound if the source doesn't exist.
	GetSource(ctx context.Context, id string) (*core.Source, error)

	// ListSources retrieves all sources owned by the given owner,
	// ordered by creation time.
	ListSources(ctx context.Context, ownerID string) ([]*core.Source, error)

	// UpdateSourceStatus moves a source through its lifecycle state machine.
	// Returns core.ErrInvalidTransition if the state machine forbids the move,
	// ErrNotFound if the source doesn't exist.
	UpdateSourceStatus(ctx context.Context, id string, status core.SourceStatus) error

	// PutVectorIndexMetadata records that a source's vector collection is ready.
	PutVectorIndexMetadata(ctx context.Context, meta *core.VectorIndexMetadata) error

	// GetVectorIndexMetadata retrieves a source's vector index metadata.
	// Returns ErrNotFound if no vector index has been recorded.
	GetVectorIndexMetadata(ctx context.Context, sourceID string) (*core.VectorIndexMetadata, error)

	// PutGraphMetadata records a completed graph build.
	PutGraphMetadata(ctx context.Context, meta *core.GraphMetadata) error

	// GetGraphMetadata retrieves a source's graph metadata.
	// Returns ErrNotFound if no graph build has completed.
	GetGraphMetadata(ctx context.Context, sourceID string) (*core.GraphMetadata, error)

	// DeleteSource removes the source record and both metadata rows in one
	// transaction. Returns ErrNotFound if the source doesn't exist.
	DeleteSource(ctx context.Context, id string) error

	// Close closes the repository.
	Close() error
}

// VectorRepository provides similarity-search collections of embedded chunks.
// Collections are scoped one-to-one with sources via core.CollectionName.
type VectorRepository interface {
	// UpsertChunks writes chunks into a collection, keyed by chunk ID, so
	// re-ingesting identical content converges rather than duplicates.
	UpsertChunks(ctx context.Context, collection string, chunks []*core.StoredChunk) error

	// SimilaritySearch returns up to limit chunks from the collection ordered
	// by cosine similarity to the query vector, highest first.
	SimilaritySearch(ctx context.Context, collection string, vector []float32, limit int) ([]*core.ChunkMatch, error)

	// DeleteCollection removes a whole collection. Deleting a collection that
	// doesn't exist is not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Close closes the repository.
	Close() error
}

// GraphRepository provides the source-scoped knowledge graph. All writes are
// merge-by-key: repeating a merge with the same key converges to one record.
// Implementations must be thread-safe; the graph builder merges from several
// goroutines at once.
type GraphRepository interface {
	// MergeScope creates the graph-side record for a source, idempotently.
	MergeScope(ctx context.Context, sourceID string) error

	// MergeEntity upserts an entity keyed (Name, SourceID). On re-merge only
	// the type is overwritten.
	MergeEntity(ctx context.Context, entity *core.Entity) error

	// MergeFileNode upserts a file node keyed (Path, SourceID).
	MergeFileNode(ctx context.Context, file *core.FileNode) error

	// MergeRelationship upserts a directed edge keyed (SourceID, From, To, Type).
	MergeRelationship(ctx context.Context, rel *core.Relationship) error

	// MergeMention upserts a file-mentions-entity edge.
	MergeMention(ctx context.Context, mention *core.Mention) error

	// GetEntity retrieves one entity by scope and name.
	// Returns ErrNotFound if it doesn't exist.
	GetEntity(ctx context.Context, sourceID, name string) (*core.Entity, error)

	// EntitiesByScope returns every entity of one source.
	EntitiesByScope(ctx context.Context, sourceID string) ([]*core.Entity, error)

	// Neighbors returns every relationship touching the named entity in the
	// given scope, in either direction.
	Neighbors(ctx context.Context, sourceID, name string) ([]*core.Relationship, error)

	// MentionsOf returns the paths of files that mention the named entity.
	MentionsOf(ctx context.Context, sourceID, entity string) ([]string, error)

	// CountEntities returns the number of entities in a scope.
	CountEntities(ctx context.Context, sourceID string) (int, error)

	// CountRelationships returns the number of relationship edges in a scope.
	CountRelationships(ctx context.Context, sourceID string) (int, error)

	// DeleteByScope removes every node and edge belonging to a source.
	DeleteByScope(ctx context.Context, sourceID string) error

	// Close closes the repository.
	Close() error
}
