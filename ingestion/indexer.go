// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

// vectorIndexer embeds chunks and writes them into a source's collection.
type vectorIndexer struct {
	vectors  storage.VectorRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

func newVectorIndexer(vectors storage.VectorRepository, embedder ai.Embedder, logger *slog.Logger) (*vectorIndexer, error) {
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &vectorIndexer{
		vectors:  vectors,
		embedder: embedder,
		logger:   logger.With("processor", "vectors"),
	}, nil
}

// index embeds all chunk texts in one batch, stamps source identity into each
// chunk's metadata and upserts the collection. Chunk IDs are content hashes,
// so re-indexing identical content converges instead of duplicating.
func (vi *vectorIndexer) index(ctx context.Context, source *core.Source, chunks []core.Chunk) error {
	vi.logger.Debug("generating embeddings for chunks", "sourceID", source.ID, "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	embeddings, err := vi.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(embeddings))
	}

	stored := make([]*core.StoredChunk, len(chunks))
	for i, chunk := range chunks {
		metadata := make(map[string]string, len(chunk.Metadata)+2)
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		metadata[core.MetaSourceID] = source.ID
		metadata[core.MetaSourceType] = source.Type.String()

		stored[i] = &core.StoredChunk{
			Id:       core.IDFromContent(chunk.Text),
			Text:     chunk.Text,
			Ordinal:  chunk.Ordinal,
			Vector:   embeddings[i],
			Metadata: metadata,
		}
	}

	return vi.vectors.UpsertChunks(ctx, core.CollectionName(source.ID), stored)
}
