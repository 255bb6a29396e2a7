package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// GraphExtractor extracts typed entities and relationships from text.
// It is a best-effort, occasionally-failing service: callers are expected to
// isolate per-call failures rather than abort a whole job.
// Implementations must be thread-safe for concurrent use.
type GraphExtractor interface {
	// ExtractGraph analyzes text and returns the entities and relationships
	// it describes, constrained by the given schema. An empty schema allows
	// an open vocabulary.
	// Returns an empty graph if nothing is found.
	// Returns an error if the extraction call fails.
	ExtractGraph(ctx context.Context, text string, schema ExtractionSchema) (*ExtractedGraph, error)
}

// Answerer generates a grounded answer from a query and retrieved evidence.
// It is an opaque service from the core's point of view: retrieval assembles
// the evidence, the answerer turns it into prose.
type Answerer interface {
	// Answer generates a response to the query grounded in the given context.
	Answer(ctx context.Context, query string, contextText string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, GraphExtractor and Answerer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// GraphExtractor returns the entity/relationship extraction service.
	// The returned GraphExtractor is safe for concurrent use.
	GraphExtractor() GraphExtractor

	// Answerer returns the grounded answer generation service.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
