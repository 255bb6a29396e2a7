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
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

// defaultExtractionConcurrency bounds in-flight extraction calls per build.
// Local model servers degrade badly past a handful of concurrent requests.
const defaultExtractionConcurrency = 3

// GraphBuilder constructs a source's knowledge graph from its chunks.
//
// A build is a best-effort aggregation: each chunk is extracted and merged
// independently, and a chunk whose extraction or merge fails is logged and
// skipped without affecting its siblings. Only job-level failures (scope
// setup, final metadata write) fail the build and with it the source.
type GraphBuilder struct {
	sources     storage.SourceRepository
	graph       storage.GraphRepository
	extractor   ai.GraphExtractor
	concurrency int
	logger      *slog.Logger
}

// BuilderOption configures a GraphBuilder.
type BuilderOption func(*GraphBuilder) error

// WithBuilderConcurrency sets the number of extraction calls in flight per
// build. Values below 1 are clamped to 1.
func WithBuilderConcurrency(n int) BuilderOption {
	return func(b *GraphBuilder) error {
		if n < 1 {
			n = 1
		}
		b.concurrency = n
		return nil
	}
}

// WithBuilderLogger sets a custom logger.
// Default is slog.Default().
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *GraphBuilder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewGraphBuilder creates a new graph builder.
func NewGraphBuilder(
	sources storage.SourceRepository,
	graph storage.GraphRepository,
	extractor ai.GraphExtractor,
	opts ...BuilderOption,
) (*GraphBuilder, error) {
	if sources == nil {
		return nil, ErrSourceRepositoryRequired
	}
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if extractor == nil {
		return nil, fmt.Errorf("graph extractor required")
	}

	b := &GraphBuilder{
		sources:     sources,
		graph:       graph,
		extractor:   extractor,
		concurrency: defaultExtractionConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.logger = b.logger.With("processor", "graph")
	return b, nil
}

// Build constructs the graph for one source and drives its status to Indexed
// or Failed. The source must be in the Indexing state when Build is called.
func (b *GraphBuilder) Build(ctx context.Context, source *core.Source, chunks []core.Chunk) error {
	if err := b.build(ctx, source, chunks); err != nil {
		b.logger.Error("graph build failed", "sourceID", source.ID, "err", err)
		if statusErr := b.sources.UpdateSourceStatus(ctx, source.ID, core.StatusFailed); statusErr != nil {
			b.logger.Error("error marking source failed", "sourceID", source.ID, "err", statusErr)
		}
		return err
	}

	return b.sources.UpdateSourceStatus(ctx, source.ID, core.StatusIndexed)
}

func (b *GraphBuilder) build(ctx context.Context, source *core.Source, chunks []core.Chunk) error {
	b.logger.Info("building graph", "sourceID", source.ID, "chunks", len(chunks))

	if err := b.graph.MergeScope(ctx, source.ID); err != nil {
		return fmt.Errorf("merge scope: %w", err)
	}

	if source.Type == core.SourceTypeRepo {
		if err := b.mergeFileNodes(ctx, source.ID, chunks); err != nil {
			return fmt.Errorf("merge file nodes: %w", err)
		}
	}

	schema := b.schemaFor(source.Type)

	pool, err := ants.NewPool(b.concurrency)
	if err != nil {
		return err
	}
	defer pool.Release()

	// Extraction runs concurrently, bounded by the pool; merges are
	// serialized under mergeMu so concurrent chunks cannot conflict on
	// shared entity keys. Extraction latency dwarfs merge latency.
	var (
		wg      sync.WaitGroup
		mergeMu sync.Mutex
	)
	for i := range chunks {
		chunk := &chunks[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			extracted, err := b.extractor.ExtractGraph(ctx, chunk.Text, schema)
			if err != nil {
				b.logger.Warn("chunk extraction failed, skipping",
					"sourceID", source.ID, "ordinal", chunk.Ordinal, "err", err)
				return
			}

			mergeMu.Lock()
			defer mergeMu.Unlock()
			if err := b.mergeExtracted(ctx, source, chunk, extracted); err != nil {
				b.logger.Warn("chunk merge failed, skipping",
					"sourceID", source.ID, "ordinal", chunk.Ordinal, "err", err)
			}
		})
		if submitErr != nil {
			wg.Done()
			b.logger.Warn("chunk submit failed, skipping",
				"sourceID", source.ID, "ordinal", chunk.Ordinal, "err", submitErr)
		}
	}
	wg.Wait()

	entityCount, err := b.graph.CountEntities(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("count entities: %w", err)
	}
	relationCount, err := b.graph.CountRelationships(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("count relationships: %w", err)
	}

	if err := b.sources.PutGraphMetadata(ctx, &core.GraphMetadata{
		SourceID:      source.ID,
		EntityCount:   entityCount,
		RelationCount: relationCount,
		BuiltAt:       time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("put graph metadata: %w", err)
	}

	b.logger.Info("graph build complete",
		"sourceID", source.ID, "entities", entityCount, "relationships", relationCount)
	return nil
}

func (b *GraphBuilder) schemaFor(t core.SourceType) ai.ExtractionSchema {
	if t == core.SourceTypeRepo {
		return ai.RepoSchema()
	}
	return ai.FileSchema()
}

// mergeFileNodes registers one FileNode per distinct path before extraction
// starts, so mention edges always point at an existing file node.
func (b *GraphBuilder) mergeFileNodes(ctx context.Context, sourceID string, chunks []core.Chunk) error {
	seen := make(map[string]bool)
	for i := range chunks {
		path := chunks[i].Path()
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true

		if err := b.graph.MergeFileNode(ctx, &core.FileNode{
			SourceID: sourceID,
			Path:     path,
			Language: chunks[i].Metadata[core.MetaLanguage],
			FileType: chunks[i].Metadata[core.MetaFileType],
		}); err != nil {
			return err
		}
	}
	return nil
}

// mergeExtracted normalizes one chunk's extraction result and merges it.
// Nodes without both id and type are dropped, as are relationships missing a
// type or either endpoint. Everything merged carries the source scope.
func (b *GraphBuilder) mergeExtracted(ctx context.Context, source *core.Source, chunk *core.Chunk, extracted *ai.ExtractedGraph) error {
	if extracted == nil {
		return nil
	}

	path := chunk.Path()
	for _, node := range extracted.Nodes {
		if node.ID == "" || node.Type == "" {
			continue
		}
		if err := b.graph.MergeEntity(ctx, &core.Entity{
			SourceID: source.ID,
			Name:     node.ID,
			Type:     node.Type,
		}); err != nil {
			return err
		}

		if source.Type == core.SourceTypeRepo && path != "" {
			if err := b.graph.MergeMention(ctx, &core.Mention{
				SourceID: source.ID,
				Path:     path,
				Entity:   node.ID,
			}); err != nil {
				return err
			}
		}
	}

	for _, rel := range extracted.Relationships {
		if rel.Source == "" || rel.Target == "" || rel.Type == "" {
			continue
		}
		if err := b.graph.MergeRelationship(ctx, &core.Relationship{
			SourceID: source.ID,
			From:     rel.Source,
			To:       rel.Target,
			Type:     rel.Type,
		}); err != nil {
			return err
		}
	}

	return nil
}
