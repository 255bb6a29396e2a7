package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for stored chunks.
// It is generated using content-based hashing so that re-ingesting identical
// content converges on the same record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NewSourceID generates a fresh identifier for a Source.
func NewSourceID() string {
	return uuid.NewString()
}

// CollectionPrefix is prepended to a source ID to derive its vector collection
// name. The convention is stable so cleanup can always find the collection from
// the source ID alone, even if metadata is missing.
const CollectionPrefix = "loom"

// CollectionName derives the vector collection name for a source.
func CollectionName(sourceID string) string {
	return CollectionPrefix + "_" + sourceID
}

// SourceType identifies the kind of content a Source was ingested from.
type SourceType int

const (
	// SourceTypeFile represents a single document (e.g. extracted PDF text).
	SourceTypeFile SourceType = iota + 1
	// SourceTypeRepo represents a repository of files.
	SourceTypeRepo
)

// String returns the wire representation of the source type.
func (t SourceType) String() string {
	switch t {
	case SourceTypeFile:
		return "file"
	case SourceTypeRepo:
		return "repo"
	default:
		return "unknown"
	}
}

// SourceStatus tracks a source through its indexing lifecycle.
type SourceStatus int

const (
	// StatusUploaded means the source exists but no index has been built yet.
	StatusUploaded SourceStatus = iota + 1
	// StatusIndexing means the vector index is ready and the graph build is in flight.
	StatusIndexing
	// StatusIndexed means both indexes are ready.
	StatusIndexed
	// StatusFailed is terminal; a failed source requires a fresh ingestion.
	StatusFailed
)

// String returns the wire representation of the status.
func (s SourceStatus) String() string {
	switch s {
	case StatusUploaded:
		return "uploaded"
	case StatusIndexing:
		return "indexing"
	case StatusIndexed:
		return "indexed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether the status machine permits moving to next.
//
// Allowed transitions:
//   - Uploaded -> Indexing (vector index succeeded)
//   - Uploaded -> Failed   (vector index failed)
//   - Indexing -> Indexed  (graph build succeeded)
//   - Indexing -> Failed   (graph build failed)
func (s SourceStatus) CanTransition(next SourceStatus) bool {
	switch s {
	case StatusUploaded:
		return next == StatusIndexing || next == StatusFailed
	case StatusIndexing:
		return next == StatusIndexed || next == StatusFailed
	default:
		return false
	}
}

// Source represents one ingested unit of content (a file or a repository)
// with its own lifecycle and graph/vector scope.
type Source struct {
	ID        string
	Title     string
	Type      SourceType
	Status    SourceStatus
	OwnerID   string
	CreatedAt time.Time
}

// VectorIndexMetadata records that a source's vector collection is ready.
// One-to-one with Source, written immediately after vector indexing succeeds.
type VectorIndexMetadata struct {
	SourceID   string
	Provider   string
	Collection string
	IndexedAt  time.Time
}

// GraphMetadata records the result of a completed graph build.
// One-to-one with Source, written only after the background build finishes.
type GraphMetadata struct {
	SourceID      string
	EntityCount   int
	RelationCount int
	BuiltAt       time.Time
}

// Chunk is a bounded text unit produced by the chunker, the atomic input to
// both indexers. Metadata carries chunker tags (path, language, fileType) and
// is later stamped with sourceId/sourceType by the vector indexer.
type Chunk struct {
	Text     string
	Ordinal  int
	Metadata map[string]string
}

// Path returns the repo file path this chunk was cut from, if any.
func (c *Chunk) Path() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata[MetaPath]
}

// Metadata keys set by the chunker and vector indexer.
const (
	MetaPath       = "path"
	MetaLanguage   = "language"
	MetaFileType   = "fileType"
	MetaSourceID   = "sourceId"
	MetaSourceType = "sourceType"
)

// File type labels for repo chunks.
const (
	FileTypeMarkdown = "markdown"
	FileTypeCode     = "code"
)

// RepoFile is one file of a repository source, as handed to the chunker.
type RepoFile struct {
	Path    string
	Content string
}

// StoredChunk is the persisted form of a chunk: content-addressed, embedded,
// and scoped to one vector collection.
type StoredChunk struct {
	Id       ID
	Text     string
	Ordinal  int
	Vector   []float32
	Metadata map[string]string
}

// ChunkMatch is a chunk returned from vector similarity search.
type ChunkMatch struct {
	Chunk *StoredChunk
	Score float32
}

// Entity is a typed graph node. Name uniqueness is scoped per source, not
// global; (Name, SourceID) is the merge key.
type Entity struct {
	SourceID string
	Name     string
	Type     string
}

// FileNode is a graph node for one file of a repo source, keyed (Path, SourceID).
type FileNode struct {
	SourceID string
	Path     string
	Language string
	FileType string
}

// Relationship is a directed typed edge between two entities sharing the same
// source scope. (SourceID, From, To, Type) is the merge key.
type Relationship struct {
	SourceID string
	From     string
	To       string
	Type     string
}

// Key returns the edge identity used for merge and deduplication.
func (r *Relationship) Key() string {
	return r.SourceID + "|" + r.From + "|" + r.To + "|" + r.Type
}

// Mention links a repo file to an entity extracted from its chunks.
type Mention struct {
	SourceID string
	Path     string
	Entity   string
}

// FactKind discriminates the two kinds of retrieved graph facts.
type FactKind int

const (
	// FactEntity is an anchor entity fact.
	FactEntity FactKind = iota + 1
	// FactRelation is a relationship edge fact found on an expansion path.
	FactRelation
)

// Fact is one unit of graph evidence returned by retrieval, ranked by
// relevance. Entity facts populate Name/Type/Path; relation facts populate
// From/Predicate/To/Hops.
type Fact struct {
	Kind     FactKind
	SourceID string

	// Entity fact fields.
	Name string
	Type string
	Path string // defining file, when known

	// Relation fact fields.
	From      string
	Predicate string
	To        string
	Hops      int

	Score float32
}
