package badger

import (
	"context"
	"testing"

	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphRepository_MergeEntityConverges(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	entity := &core.Entity{SourceID: "src-1", Name: "Cache", Type: "Class"}
	require.NoError(t, repos.Graph.MergeEntity(ctx, entity))
	require.NoError(t, repos.Graph.MergeEntity(ctx, entity))

	count, err := repos.Graph.CountEntities(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-merging the same (Name, SourceID) must converge")
}

func TestGraphRepository_MergeEntityUpdatesType(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Graph.MergeEntity(ctx,
		&core.Entity{SourceID: "src-1", Name: "Cache", Type: "Concept"}))
	require.NoError(t, repos.Graph.MergeEntity(ctx,
		&core.Entity{SourceID: "src-1", Name: "Cache", Type: "Class"}))

	got, err := repos.Graph.GetEntity(ctx, "src-1", "Cache")
	require.NoError(t, err)
	assert.Equal(t, "Class", got.Type, "later merge wins the type")
}

func TestGraphRepository_MergeEntityInvalid(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	err := repos.Graph.MergeEntity(ctx, &core.Entity{SourceID: "src-1", Name: "", Type: "Class"})
	assert.ErrorIs(t, err, core.ErrEmptyEntityName)

	err = repos.Graph.MergeEntity(ctx, &core.Entity{SourceID: "", Name: "Cache", Type: "Class"})
	assert.ErrorIs(t, err, core.ErrEmptySourceID)
}

func TestGraphRepository_GetEntityMissing(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Graph.GetEntity(context.Background(), "src-1", "Ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGraphRepository_EntityScopeIsolation(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Graph.MergeEntity(ctx,
		&core.Entity{SourceID: "src-a", Name: "Cache", Type: "Class"}))
	require.NoError(t, repos.Graph.MergeEntity(ctx,
		&core.Entity{SourceID: "src-b", Name: "Cache", Type: "Concept"}))

	got, err := repos.Graph.GetEntity(ctx, "src-a", "Cache")
	require.NoError(t, err)
	assert.Equal(t, "Class", got.Type)

	entities, err := repos.Graph.EntitiesByScope(ctx, "src-a")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "src-a", entities[0].SourceID)
}

func TestGraphRepository_MergeRelationshipConverges(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	rel := &core.Relationship{SourceID: "src-1", From: "Cache", To: "Store", Type: "USES"}
	require.NoError(t, repos.Graph.MergeRelationship(ctx, rel))
	require.NoError(t, repos.Graph.MergeRelationship(ctx, rel))

	count, err := repos.Graph.CountRelationships(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-merging the same edge key must converge")
}

func TestGraphRepository_NeighborsBothDirections(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Graph.MergeRelationship(ctx,
		&core.Relationship{SourceID: "src-1", From: "Cache", To: "Store", Type: "USES"}))
	require.NoError(t, repos.Graph.MergeRelationship(ctx,
		&core.Relationship{SourceID: "src-1", From: "Server", To: "Cache", Type: "DEPENDS_ON"}))
	require.NoError(t, repos.Graph.MergeRelationship(ctx,
		&core.Relationship{SourceID: "src-1", From: "Server", To: "Store", Type: "USES"}))

	rels, err := repos.Graph.Neighbors(ctx, "src-1", "Cache")
	require.NoError(t, err)
	require.Len(t, rels, 2)

	keys := map[string]bool{}
	for _, rel := range rels {
		keys[rel.Key()] = true
	}
	assert.True(t, keys["src-1|Cache|Store|USES"])
	assert.True(t, keys["src-1|Server|Cache|DEPENDS_ON"])
}

func TestGraphRepository_NeighborsScopeIsolation(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Graph.MergeRelationship(ctx,
		&core.Relationship{SourceID: "src-a", From: "Cache", To: "Store", Type: "USES"}))
	require.NoError(t, repos.Graph.MergeRelationship(ctx,
		&core.Relationship{SourceID: "src-b", From: "Cache", To: "Disk", Type: "USES"}))

	rels, err := repos.Graph.Neighbors(ctx, "src-a", "Cache")
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "Store", rels[0].To)
}

func TestGraphRepository_FileNodesAndMentions(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Graph.MergeFileNode(ctx, &core.FileNode{
		SourceID: "src-1", Path: "internal/cache/cache.go", Language: "go", FileType: core.FileTypeCode,
	}))
	require.NoError(t, repos.Graph.MergeMention(ctx, &core.Mention{
		SourceID: "src-1", Path: "internal/cache/cache.go", Entity: "Cache",
	}))
	require.NoError(t, repos.Graph.MergeMention(ctx, &core.Mention{
		SourceID: "src-1", Path: "cmd/server/main.go", Entity: "Cache",
	}))
	// duplicate mention converges
	require.NoError(t, repos.Graph.MergeMention(ctx, &core.Mention{
		SourceID: "src-1", Path: "cmd/server/main.go", Entity: "Cache",
	}))

	paths, err := repos.Graph.MentionsOf(ctx, "src-1", "Cache")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"internal/cache/cache.go", "cmd/server/main.go"}, paths)
}

func TestGraphRepository_DeleteByScope(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	for _, sid := range []string{"src-a", "src-b"} {
		require.NoError(t, repos.Graph.MergeScope(ctx, sid))
		require.NoError(t, repos.Graph.MergeEntity(ctx,
			&core.Entity{SourceID: sid, Name: "Cache", Type: "Class"}))
		require.NoError(t, repos.Graph.MergeRelationship(ctx,
			&core.Relationship{SourceID: sid, From: "Cache", To: "Store", Type: "USES"}))
		require.NoError(t, repos.Graph.MergeMention(ctx,
			&core.Mention{SourceID: sid, Path: "a.go", Entity: "Cache"}))
	}

	require.NoError(t, repos.Graph.DeleteByScope(ctx, "src-a"))

	count, err := repos.Graph.CountEntities(ctx, "src-a")
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = repos.Graph.CountRelationships(ctx, "src-a")
	require.NoError(t, err)
	assert.Zero(t, count)
	paths, err := repos.Graph.MentionsOf(ctx, "src-a", "Cache")
	require.NoError(t, err)
	assert.Empty(t, paths)

	// the other scope is untouched
	count, err = repos.Graph.CountEntities(ctx, "src-b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	rels, err := repos.Graph.Neighbors(ctx, "src-b", "Cache")
	require.NoError(t, err)
	assert.Len(t, rels, 1)
}

func TestGraphRepository_DeleteMissingScope(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Graph.DeleteByScope(context.Background(), "never-created")
	assert.NoError(t, err)
}

func TestGraphRepository_SeparatorInKeyParts(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	// Extracted names can contain arbitrary bytes, including the key
	// separator. The key layout must not let such a name shift part
	// boundaries or leak into a neighboring scope.
	name := "Cache\x1fManager"
	require.NoError(t, repos.Graph.MergeEntity(ctx,
		&core.Entity{SourceID: "src-1", Name: name, Type: "Class"}))

	got, err := repos.Graph.GetEntity(ctx, "src-1", name)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name, "the stored value keeps the original name")

	count, err := repos.Graph.CountEntities(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entities, err := repos.Graph.EntitiesByScope(ctx, "src-1")
	require.NoError(t, err)
	require.Len(t, entities, 1)

	require.NoError(t, repos.Graph.MergeRelationship(ctx,
		&core.Relationship{SourceID: "src-1", From: name, To: "Store", Type: "USES"}))
	rels, err := repos.Graph.Neighbors(ctx, "src-1", name)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, name, rels[0].From)

	require.NoError(t, repos.Graph.MergeMention(ctx,
		&core.Mention{SourceID: "src-1", Entity: name, Path: "pkg\x1fcache.go"}))
	paths, err := repos.Graph.MentionsOf(ctx, "src-1", name)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "pkg cache.go", paths[0], "mention keys store the flattened path")
}
