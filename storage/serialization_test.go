package storage

import (
	"testing"
	"time"

	"github.com/poiesic/loom/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRoundTrip(t *testing.T) {
	source := &core.Source{
		ID:        "src-1",
		Title:     "design notes",
		Type:      core.SourceTypeRepo,
		Status:    core.StatusIndexing,
		OwnerID:   "user-1",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 123000, time.UTC),
	}

	got, err := UnmarshalSource(MarshalSource(source))
	require.NoError(t, err)
	assert.Equal(t, source.ID, got.ID)
	assert.Equal(t, source.Title, got.Title)
	assert.Equal(t, source.Type, got.Type)
	assert.Equal(t, source.Status, got.Status)
	assert.Equal(t, source.OwnerID, got.OwnerID)
	assert.True(t, source.CreatedAt.Equal(got.CreatedAt), "timestamps must round-trip to the microsecond")
}

func TestStoredChunkRoundTrip(t *testing.T) {
	chunk := &core.StoredChunk{
		Id:      core.IDFromContent("chunk text"),
		Text:    "chunk text",
		Ordinal: 3,
		Vector:  []float32{0.25, -1.5, 0.0},
		Metadata: map[string]string{
			core.MetaPath:     "pkg/a.go",
			core.MetaSourceID: "src-1",
		},
	}

	got, err := UnmarshalStoredChunk(MarshalStoredChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, got)
}

func TestRelationshipRoundTrip(t *testing.T) {
	rel := &core.Relationship{SourceID: "src-1", From: "Server", To: "Store", Type: "USES"}

	got, err := UnmarshalRelationship(MarshalRelationship(rel))
	require.NoError(t, err)
	assert.Equal(t, rel, got)
}

func TestUnmarshalSource_Corrupt(t *testing.T) {
	_, err := UnmarshalSource([]byte{0xff})
	assert.Error(t, err)
}
