package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/loom/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedChunk(text string, ordinal int, vector []float32) *core.StoredChunk {
	return &core.StoredChunk{
		Id:       core.IDFromContent(text),
		Text:     text,
		Ordinal:  ordinal,
		Vector:   vector,
		Metadata: map[string]string{core.MetaSourceID: "src-1"},
	}
}

func TestVectorRepository_UpsertAndSearch(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	collection := core.CollectionName("src-1")

	chunks := []*core.StoredChunk{
		storedChunk("about cats", 0, []float32{1, 0, 0}),
		storedChunk("about dogs", 1, []float32{0, 1, 0}),
		storedChunk("about birds", 2, []float32{0, 0, 1}),
	}
	require.NoError(t, repos.Vectors.UpsertChunks(ctx, collection, chunks))

	matches, err := repos.Vectors.SimilaritySearch(ctx, collection, []float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "about cats", matches[0].Chunk.Text)
	assert.Equal(t, "about dogs", matches[1].Chunk.Text)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestVectorRepository_UpsertConverges(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	collection := core.CollectionName("src-1")

	chunk := storedChunk("same content", 0, []float32{1, 0})
	require.NoError(t, repos.Vectors.UpsertChunks(ctx, collection, []*core.StoredChunk{chunk}))
	require.NoError(t, repos.Vectors.UpsertChunks(ctx, collection, []*core.StoredChunk{chunk}))

	matches, err := repos.Vectors.SimilaritySearch(ctx, collection, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "re-upserting the same chunk ID must not duplicate")
}

func TestVectorRepository_CollectionIsolation(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Vectors.UpsertChunks(ctx, core.CollectionName("src-a"),
		[]*core.StoredChunk{storedChunk("alpha", 0, []float32{1})}))
	require.NoError(t, repos.Vectors.UpsertChunks(ctx, core.CollectionName("src-b"),
		[]*core.StoredChunk{storedChunk("beta", 0, []float32{1})}))

	matches, err := repos.Vectors.SimilaritySearch(ctx, core.CollectionName("src-a"), []float32{1}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "alpha", matches[0].Chunk.Text)
}

func TestVectorRepository_SearchMissingCollection(t *testing.T) {
	repos := newTestRepos(t)

	matches, err := repos.Vectors.SimilaritySearch(context.Background(),
		core.CollectionName("never-created"), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVectorRepository_SearchLimit(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	collection := core.CollectionName("src-1")

	var chunks []*core.StoredChunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, storedChunk(fmt.Sprintf("chunk %d", i), i, []float32{float32(i), 1}))
	}
	require.NoError(t, repos.Vectors.UpsertChunks(ctx, collection, chunks))

	matches, err := repos.Vectors.SimilaritySearch(ctx, collection, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestVectorRepository_DeleteCollection(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	collection := core.CollectionName("src-1")

	require.NoError(t, repos.Vectors.UpsertChunks(ctx, collection,
		[]*core.StoredChunk{storedChunk("doomed", 0, []float32{1})}))
	require.NoError(t, repos.Vectors.DeleteCollection(ctx, collection))

	matches, err := repos.Vectors.SimilaritySearch(ctx, collection, []float32{1}, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVectorRepository_DeleteMissingCollection(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Vectors.DeleteCollection(context.Background(), core.CollectionName("never-created"))
	assert.NoError(t, err, "deleting an absent collection is not an error")
}

func TestDotProduct(t *testing.T) {
	assert.InDelta(t, 1.0, dotProduct([]float32{1, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 0.0, dotProduct([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 0.5, dotProduct([]float32{0.5, 0.5}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 2.0, dotProduct([]float32{1, 1, 5}, []float32{1, 1}), 1e-6, "scores over the shorter span")
}
