package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func testSource(owner string) *core.Source {
	return &core.Source{
		ID:        core.NewSourceID(),
		Title:     "design notes",
		Type:      core.SourceTypeFile,
		Status:    core.StatusUploaded,
		OwnerID:   owner,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSourceRepository_CreateAndGet(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	source := testSource("owner-1")
	require.NoError(t, repos.Sources.CreateSource(ctx, source))

	got, err := repos.Sources.GetSource(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, source.ID, got.ID)
	assert.Equal(t, source.Title, got.Title)
	assert.Equal(t, core.SourceTypeFile, got.Type)
	assert.Equal(t, core.StatusUploaded, got.Status)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.True(t, source.CreatedAt.Equal(got.CreatedAt))
}

func TestSourceRepository_GetMissing(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Sources.GetSource(context.Background(), "no-such-source")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSourceRepository_CreateInvalid(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	source := testSource("owner-1")
	source.OwnerID = ""
	err := repos.Sources.CreateSource(ctx, source)
	assert.ErrorIs(t, err, core.ErrEmptyOwnerID)
}

func TestSourceRepository_ListByOwner(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	base := time.Now().UTC()
	var wantIDs []string
	for i := 0; i < 3; i++ {
		source := testSource("owner-a")
		source.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repos.Sources.CreateSource(ctx, source))
		wantIDs = append(wantIDs, source.ID)
	}
	require.NoError(t, repos.Sources.CreateSource(ctx, testSource("owner-b")))

	sources, err := repos.Sources.ListSources(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, sources, 3)
	for i, source := range sources {
		assert.Equal(t, wantIDs[i], source.ID)
		assert.Equal(t, "owner-a", source.OwnerID)
	}
}

func TestSourceRepository_ListEmptyOwner(t *testing.T) {
	repos := newTestRepos(t)

	sources, err := repos.Sources.ListSources(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSourceRepository_StatusLifecycle(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	source := testSource("owner-1")
	require.NoError(t, repos.Sources.CreateSource(ctx, source))

	require.NoError(t, repos.Sources.UpdateSourceStatus(ctx, source.ID, core.StatusIndexing))
	require.NoError(t, repos.Sources.UpdateSourceStatus(ctx, source.ID, core.StatusIndexed))

	got, err := repos.Sources.GetSource(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusIndexed, got.Status)
}

func TestSourceRepository_InvalidTransition(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	source := testSource("owner-1")
	require.NoError(t, repos.Sources.CreateSource(ctx, source))

	// uploaded -> indexed skips the indexing state
	err := repos.Sources.UpdateSourceStatus(ctx, source.ID, core.StatusIndexed)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	got, err := repos.Sources.GetSource(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusUploaded, got.Status, "failed transition must not change status")
}

func TestSourceRepository_UpdateStatusMissing(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Sources.UpdateSourceStatus(context.Background(), "no-such-source", core.StatusIndexing)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSourceRepository_VectorIndexMetadata(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	source := testSource("owner-1")
	require.NoError(t, repos.Sources.CreateSource(ctx, source))

	_, err := repos.Sources.GetVectorIndexMetadata(ctx, source.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	meta := &core.VectorIndexMetadata{
		SourceID:   source.ID,
		Provider:   "openai-compatible",
		Collection: core.CollectionName(source.ID),
		IndexedAt:  time.Now().UTC(),
	}
	require.NoError(t, repos.Sources.PutVectorIndexMetadata(ctx, meta))

	got, err := repos.Sources.GetVectorIndexMetadata(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.Collection, got.Collection)
	assert.Equal(t, meta.Provider, got.Provider)
	assert.True(t, meta.IndexedAt.Equal(got.IndexedAt))
}

func TestSourceRepository_GraphMetadata(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	source := testSource("owner-1")
	require.NoError(t, repos.Sources.CreateSource(ctx, source))

	_, err := repos.Sources.GetGraphMetadata(ctx, source.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	meta := &core.GraphMetadata{
		SourceID:      source.ID,
		EntityCount:   7,
		RelationCount: 4,
		BuiltAt:       time.Now().UTC(),
	}
	require.NoError(t, repos.Sources.PutGraphMetadata(ctx, meta))

	got, err := repos.Sources.GetGraphMetadata(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.EntityCount)
	assert.Equal(t, 4, got.RelationCount)
}

func TestSourceRepository_Delete(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	source := testSource("owner-1")
	require.NoError(t, repos.Sources.CreateSource(ctx, source))
	require.NoError(t, repos.Sources.PutVectorIndexMetadata(ctx, &core.VectorIndexMetadata{
		SourceID:   source.ID,
		Collection: core.CollectionName(source.ID),
		IndexedAt:  time.Now().UTC(),
	}))
	require.NoError(t, repos.Sources.PutGraphMetadata(ctx, &core.GraphMetadata{
		SourceID: source.ID,
		BuiltAt:  time.Now().UTC(),
	}))

	require.NoError(t, repos.Sources.DeleteSource(ctx, source.ID))

	_, err := repos.Sources.GetSource(ctx, source.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repos.Sources.GetVectorIndexMetadata(ctx, source.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repos.Sources.GetGraphMetadata(ctx, source.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	sources, err := repos.Sources.ListSources(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSourceRepository_DeleteMissing(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Sources.DeleteSource(context.Background(), "no-such-source")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
