package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

// defaultMaxHits is used when a caller asks for zero or fewer chunk hits.
const defaultMaxHits = 8

// SearchResult is the fused evidence for one query: similarity-ranked chunks
// and score-ranked graph facts.
type SearchResult struct {
	Chunks []*core.ChunkMatch
	Facts  []core.Fact
}

// Searcher provides hybrid search over the vector and graph indexes.
type Searcher struct {
	vectors   storage.VectorRepository
	retriever *Retriever
	embedder  ai.Embedder
	answerer  ai.Answerer
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	vectors storage.VectorRepository,
	graph storage.GraphRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		vectors:  vectors,
		embedder: provider.Embedder(),
		answerer: provider.Answerer(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	retriever, err := NewRetriever(graph, s.logger)
	if err != nil {
		return nil, err
	}
	s.retriever = retriever
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Retriever exposes the graph retriever for callers that want facts alone.
func (s *Searcher) Retriever() *Retriever {
	return s.retriever
}

// Search runs both retrieval paths for the query across the given sources.
// Chunks are ranked by similarity across all collections; facts by the
// retriever's scoring. Either side may be empty without error.
func (s *Searcher) Search(ctx context.Context, query string, sourceIDs []string, maxHits int) (*SearchResult, error) {
	return s.search(ctx, query, sourceIDs, maxHits, FetchOptions{})
}

// SearchWithOptions is Search with explicit graph retrieval options.
func (s *Searcher) SearchWithOptions(ctx context.Context, query string, sourceIDs []string, maxHits int, opts FetchOptions) (*SearchResult, error) {
	return s.search(ctx, query, sourceIDs, maxHits, opts)
}

func (s *Searcher) search(ctx context.Context, query string, sourceIDs []string, maxHits int, opts FetchOptions) (*SearchResult, error) {
	if maxHits <= 0 {
		maxHits = defaultMaxHits
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	var chunks []*core.ChunkMatch
	for _, sourceID := range sourceIDs {
		matches, err := s.vectors.SimilaritySearch(ctx, core.CollectionName(sourceID), embedding, maxHits)
		if err != nil {
			s.logger.Error("error querying collection", "sourceID", sourceID, "err", err)
			return nil, err
		}
		chunks = append(chunks, matches...)
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
	if len(chunks) > maxHits {
		chunks = chunks[:maxHits]
	}

	facts, err := s.retriever.FetchFacts(ctx, query, sourceIDs, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search complete", "chunks", len(chunks), "facts", len(facts))
	return &SearchResult{Chunks: chunks, Facts: facts}, nil
}

// Answer runs Search and feeds the fused evidence to the answer service.
// Returns the generated answer and the evidence it was grounded in.
func (s *Searcher) Answer(ctx context.Context, query string, sourceIDs []string, maxHits int) (string, *SearchResult, error) {
	result, err := s.Search(ctx, query, sourceIDs, maxHits)
	if err != nil {
		return "", nil, err
	}

	answer, err := s.answerer.Answer(ctx, query, renderContext(result))
	if err != nil {
		return "", nil, err
	}
	return answer, result, nil
}

// renderContext flattens fused evidence into the prose context handed to the
// answerer: graph facts first (they are compact), then chunk texts.
func renderContext(result *SearchResult) string {
	var b strings.Builder

	if len(result.Facts) > 0 {
		b.WriteString("Known facts:\n")
		for _, fact := range result.Facts {
			switch fact.Kind {
			case core.FactEntity:
				if fact.Path != "" {
					fmt.Fprintf(&b, "- %s (%s), defined in %s\n", fact.Name, fact.Type, fact.Path)
				} else {
					fmt.Fprintf(&b, "- %s (%s)\n", fact.Name, fact.Type)
				}
			case core.FactRelation:
				fmt.Fprintf(&b, "- %s %s %s\n", fact.From, fact.Predicate, fact.To)
			}
		}
		b.WriteString("\n")
	}

	for i, match := range result.Chunks {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		b.WriteString(match.Chunk.Text)
		b.WriteString("\n")
	}

	return b.String()
}
