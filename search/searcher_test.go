package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/ai/mock"
	"github.com/poiesic/loom/core"
	storagebadger "github.com/poiesic/loom/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searcherFixture struct {
	repos    *storagebadger.Repositories
	embedder *mock.MockEmbedder
	provider ai.AIProvider
	searcher *Searcher
}

func newSearcherFixture(t *testing.T) *searcherFixture {
	t.Helper()
	repos, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGraphExtractor())

	searcher, err := NewSearcher(repos.Vectors, repos.Graph, provider)
	require.NoError(t, err)

	return &searcherFixture{
		repos:    repos,
		embedder: embedder,
		provider: provider,
		searcher: searcher,
	}
}

func (f *searcherFixture) upsert(t *testing.T, sourceID, text string, vector []float32) {
	t.Helper()
	require.NoError(t, f.repos.Vectors.UpsertChunks(context.Background(),
		core.CollectionName(sourceID), []*core.StoredChunk{{
			Id:       core.IDFromContent(text),
			Text:     text,
			Vector:   vector,
			Metadata: map[string]string{core.MetaSourceID: sourceID},
		}}))
}

func TestSearcher_FusesChunksAndFacts(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	f.upsert(t, "src-1", "the cache evicts oldest entries first", []float32{0.9, 0.1})
	f.upsert(t, "src-1", "an unrelated paragraph about parsing", []float32{0.1, 0.9})
	require.NoError(t, f.repos.Graph.MergeEntity(ctx,
		&core.Entity{SourceID: "src-1", Name: "cache", Type: "Component"}))
	require.NoError(t, f.repos.Graph.MergeRelationship(ctx,
		&core.Relationship{SourceID: "src-1", From: "cache", To: "store", Type: "USES"}))

	result, err := f.searcher.Search(ctx, "cache", []string{"src-1"}, 5)
	require.NoError(t, err)

	require.NotEmpty(t, result.Chunks)
	assert.Equal(t, "the cache evicts oldest entries first", result.Chunks[0].Chunk.Text)

	require.Len(t, result.Facts, 2)
	assert.Equal(t, core.FactEntity, result.Facts[0].Kind)
	assert.Equal(t, "cache", result.Facts[0].Name)
	assert.Equal(t, core.FactRelation, result.Facts[1].Kind)
}

func TestSearcher_RanksAcrossSources(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	f.upsert(t, "src-a", "close match", []float32{0.95, 0})
	f.upsert(t, "src-b", "closer match", []float32{0.99, 0})
	f.upsert(t, "src-b", "distant match", []float32{0.2, 0})

	result, err := f.searcher.Search(ctx, "query", []string{"src-a", "src-b"}, 2)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "closer match", result.Chunks[0].Chunk.Text)
	assert.Equal(t, "close match", result.Chunks[1].Chunk.Text)
}

func TestSearcher_EmptySources(t *testing.T) {
	f := newSearcherFixture(t)

	result, err := f.searcher.Search(context.Background(), "anything", nil, 5)
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
	assert.Empty(t, result.Facts)
}

func TestSearcher_EmbedFailure(t *testing.T) {
	f := newSearcherFixture(t)

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	_, err := f.searcher.Search(context.Background(), "query", []string{"src-1"}, 5)
	require.Error(t, err)
}

func TestSearcher_InvalidHopDepth(t *testing.T) {
	f := newSearcherFixture(t)

	_, err := f.searcher.SearchWithOptions(context.Background(), "query", []string{"src-1"}, 5,
		FetchOptions{HopDepth: 9})
	assert.ErrorIs(t, err, ErrInvalidHopDepth)
}

func TestSearcher_Answer(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	f.upsert(t, "src-1", "the cache holds hot rows", []float32{0.9, 0})
	require.NoError(t, f.repos.Graph.MergeEntity(ctx,
		&core.Entity{SourceID: "src-1", Name: "cache", Type: "Component"}))

	answer, result, err := f.searcher.Answer(ctx, "cache", []string{"src-1"}, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.NotEmpty(t, result.Chunks)
	assert.NotEmpty(t, result.Facts)
}

func TestRenderContext(t *testing.T) {
	result := &SearchResult{
		Chunks: []*core.ChunkMatch{
			{Chunk: &core.StoredChunk{Text: "chunk one"}},
			{Chunk: &core.StoredChunk{Text: "chunk two"}},
		},
		Facts: []core.Fact{
			{Kind: core.FactEntity, Name: "cache", Type: "Class", Path: "cache.go"},
			{Kind: core.FactRelation, From: "cache", Predicate: "USES", To: "store"},
		},
	}

	text := renderContext(result)
	assert.Contains(t, text, "cache (Class), defined in cache.go")
	assert.Contains(t, text, "cache USES store")
	assert.Contains(t, text, "chunk one")
	assert.True(t, strings.Index(text, "cache USES store") < strings.Index(text, "chunk one"),
		"facts precede chunks")
}
