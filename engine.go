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

package loom

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/ai/cached"
	"github.com/poiesic/loom/ai/openai"
	"github.com/poiesic/loom/chunk"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/ingestion"
	"github.com/poiesic/loom/search"
	"github.com/poiesic/loom/storage/badger"
)

// Engine wires storage, AI services, the ingestion pipeline and the searcher
// into one handle. It is the intended entry point for embedding the system in
// a host application.
type Engine struct {
	repos    *badger.Repositories
	provider ai.AIProvider
	splitter *chunk.Splitter
	pipeline *ingestion.Pipeline
	searcher *search.Searcher
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig       *ai.Config
	provider       ai.AIProvider
	inMemory       bool
	embedCacheSize int
	embedCacheTTL  time.Duration
	splitterOpts   []chunk.Option
	pipelineOpts   []ingestion.Option
}

// WithAIConfig sets the AI service configuration used to build the default
// provider. Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider instead of constructing one
// from configuration.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the storage backend in memory rather than on disk.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithEmbedCache caches chunk embeddings in an LRU of the given size and entry
// TTL. Non-positive values disable the cache.
func WithEmbedCache(size int, ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.embedCacheSize = size
		o.embedCacheTTL = ttl
	}
}

// WithSplitterOptions passes options through to the chunker.
func WithSplitterOptions(opts ...chunk.Option) EngineOption {
	return func(o *engineOptions) {
		o.splitterOpts = append(o.splitterOpts, opts...)
	}
}

// WithPipelineOptions passes options through to the ingestion pipeline.
func WithPipelineOptions(opts ...ingestion.Option) EngineOption {
	return func(o *engineOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// NewEngine opens an engine over the database at filePath.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var repos *badger.Repositories
	var err error
	if options.inMemory {
		repos, err = badger.NewMemoryRepositories()
	} else {
		repos, err = badger.NewRepositories(filePath)
	}
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repos.Close()
			return nil, err
		}
	}
	provider = cached.NewProvider(provider, options.embedCacheSize, options.embedCacheTTL)

	splitter, err := chunk.NewSplitter(options.splitterOpts...)
	if err != nil {
		provider.Close()
		repos.Close()
		return nil, err
	}

	pipelineOpts := append([]ingestion.Option{
		ingestion.WithProviderName(options.aiConfig.Provider),
	}, options.pipelineOpts...)
	pipeline, err := ingestion.NewPipeline(repos.Sources, repos.Vectors, repos.Graph,
		splitter, provider, pipelineOpts...)
	if err != nil {
		provider.Close()
		repos.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(repos.Vectors, repos.Graph, provider)
	if err != nil {
		pipeline.Release()
		provider.Close()
		repos.Close()
		return nil, err
	}

	return &Engine{
		repos:    repos,
		provider: provider,
		splitter: splitter,
		pipeline: pipeline,
		searcher: searcher,
		logger:   slog.Default(),
	}, nil
}

// Ingest creates and indexes a file source from a document's text.
func (e *Engine) Ingest(ctx context.Context, ownerID, title, text string) (*core.Source, error) {
	return e.pipeline.Ingest(ctx, ownerID, title, text)
}

// IngestRepo creates and indexes a repo source from a set of files.
func (e *Engine) IngestRepo(ctx context.Context, ownerID, title string, files []core.RepoFile) (*core.Source, error) {
	return e.pipeline.IngestRepo(ctx, ownerID, title, files)
}

// Status reports the indexing state of a source.
func (e *Engine) Status(ctx context.Context, sourceID string) (*ingestion.StatusReport, error) {
	return e.pipeline.Status(ctx, sourceID)
}

// List returns all sources owned by ownerID.
func (e *Engine) List(ctx context.Context, ownerID string) ([]*core.Source, error) {
	return e.pipeline.List(ctx, ownerID)
}

// Delete removes a source and both of its indexes.
func (e *Engine) Delete(ctx context.Context, sourceID, ownerID string) error {
	return e.pipeline.Delete(ctx, sourceID, ownerID)
}

// Search runs hybrid retrieval across the given sources.
func (e *Engine) Search(ctx context.Context, query string, sourceIDs []string, maxHits int) (*search.SearchResult, error) {
	return e.searcher.Search(ctx, query, sourceIDs, maxHits)
}

// FetchFacts runs graph-only retrieval across the given sources.
func (e *Engine) FetchFacts(ctx context.Context, query string, sourceIDs []string, opts search.FetchOptions) ([]core.Fact, error) {
	return e.searcher.Retriever().FetchFacts(ctx, query, sourceIDs, opts)
}

// Answer runs hybrid retrieval and generates a grounded answer.
func (e *Engine) Answer(ctx context.Context, query string, sourceIDs []string, maxHits int) (string, *search.SearchResult, error) {
	return e.searcher.Answer(ctx, query, sourceIDs, maxHits)
}

// Pipeline exposes the ingestion pipeline.
func (e *Engine) Pipeline() *ingestion.Pipeline {
	return e.pipeline
}

// Searcher exposes the hybrid searcher.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// Close releases the pipeline, AI provider and storage backend.
func (e *Engine) Close() error {
	e.pipeline.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.repos.Close(); err != nil {
		e.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}
