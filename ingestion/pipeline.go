package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/chunk"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

// defaultJobPoolSize bounds concurrent graph build jobs across sources.
const defaultJobPoolSize = 4

// Pipeline orchestrates the ingestion lifecycle of sources.
// It chunks content, builds the vector index synchronously, and hands the
// graph build to a worker pool. The durable Source row is the only
// synchronization point between the ingest call and the background build.
type Pipeline struct {
	sources      storage.SourceRepository
	vectors      storage.VectorRepository
	graph        storage.GraphRepository
	splitter     *chunk.Splitter
	indexer      *vectorIndexer
	builder      *GraphBuilder
	jobs         *ants.Pool
	providerName string
	concurrency  int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent graph build jobs.
// Default is 4, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.jobs != nil {
			p.jobs.Release()
		}
		jobs, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.jobs = jobs
		return nil
	}
}

// WithExtractionConcurrency sets the number of extraction calls in flight
// within a single graph build job.
func WithExtractionConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
		return nil
	}
}

// WithProviderName labels the vector index metadata with the embedding
// provider in use.
func WithProviderName(name string) Option {
	return func(p *Pipeline) error {
		if name != "" {
			p.providerName = name
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	sources storage.SourceRepository,
	vectors storage.VectorRepository,
	graph storage.GraphRepository,
	splitter *chunk.Splitter,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if sources == nil {
		return nil, ErrSourceRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	jobs, err := ants.NewPool(defaultJobPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		sources:      sources,
		vectors:      vectors,
		graph:        graph,
		splitter:     splitter,
		jobs:         jobs,
		providerName: "openai-compatible",
		concurrency:  defaultExtractionConcurrency,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Processors are created after options so they see the final config.
	indexer, err := newVectorIndexer(vectors, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}

	builder, err := NewGraphBuilder(sources, graph, provider.GraphExtractor(),
		WithBuilderConcurrency(p.concurrency), WithBuilderLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}

	p.indexer = indexer
	p.builder = builder
	p.logger = p.logger.With("component", "pipeline")

	return p, nil
}

// Ingest creates a file source from a single document's text, indexes it for
// similarity search, and schedules its graph build. When Ingest returns
// without error the source is searchable by similarity and its status is
// Indexing; graph readiness is observable through Status.
func (p *Pipeline) Ingest(ctx context.Context, ownerID, title, text string) (*core.Source, error) {
	chunks, err := p.splitter.SplitDocument(text)
	if err != nil {
		return nil, err
	}
	return p.ingest(ctx, ownerID, title, core.SourceTypeFile, chunks)
}

// IngestRepo creates a repo source from a set of files.
func (p *Pipeline) IngestRepo(ctx context.Context, ownerID, title string, files []core.RepoFile) (*core.Source, error) {
	chunks, err := p.splitter.SplitRepo(files)
	if err != nil {
		return nil, err
	}
	return p.ingest(ctx, ownerID, title, core.SourceTypeRepo, chunks)
}

func (p *Pipeline) ingest(ctx context.Context, ownerID, title string, sourceType core.SourceType, chunks []core.Chunk) (*core.Source, error) {
	source := &core.Source{
		ID:        core.NewSourceID(),
		Title:     title,
		Type:      sourceType,
		Status:    core.StatusUploaded,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.sources.CreateSource(ctx, source); err != nil {
		return nil, err
	}

	p.logger.Info("ingesting source",
		"sourceID", source.ID, "type", sourceType.String(), "chunks", len(chunks))

	// Vector indexing is synchronous: when it fails the source is Failed and
	// the graph build never starts.
	if err := p.indexer.index(ctx, source, chunks); err != nil {
		p.logger.Error("vector indexing failed", "sourceID", source.ID, "err", err)
		if statusErr := p.sources.UpdateSourceStatus(ctx, source.ID, core.StatusFailed); statusErr != nil {
			p.logger.Error("error marking source failed", "sourceID", source.ID, "err", statusErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrVectorIndexing, err)
	}

	if err := p.sources.PutVectorIndexMetadata(ctx, &core.VectorIndexMetadata{
		SourceID:   source.ID,
		Provider:   p.providerName,
		Collection: core.CollectionName(source.ID),
		IndexedAt:  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	if err := p.sources.UpdateSourceStatus(ctx, source.ID, core.StatusIndexing); err != nil {
		return nil, err
	}
	source.Status = core.StatusIndexing

	// Fire-and-forget: build outcome is only observable through the source's
	// status. The job gets a fresh context so it survives the request's.
	buildSource := *source
	if err := p.jobs.Submit(func() {
		if err := p.builder.Build(context.Background(), &buildSource, chunks); err != nil {
			p.logger.Error("error building graph", "sourceID", buildSource.ID, "err", err)
		}
	}); err != nil {
		p.logger.Error("error submitting graph build", "sourceID", source.ID, "err", err)
	}

	return source, nil
}

// VectorStatus reports vector index readiness for one source.
type VectorStatus struct {
	Ready bool
}

// GraphStatus reports graph readiness and size for one source.
type GraphStatus struct {
	Ready         bool
	EntityCount   int
	RelationCount int
}

// StatusReport combines a source's lifecycle status with per-index readiness.
type StatusReport struct {
	SourceID string
	Status   core.SourceStatus
	Vector   VectorStatus
	Graph    GraphStatus
}

// Status reports the indexing state of a source from its metadata rows.
func (p *Pipeline) Status(ctx context.Context, sourceID string) (*StatusReport, error) {
	source, err := p.sources.GetSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		SourceID: source.ID,
		Status:   source.Status,
	}

	if _, err := p.sources.GetVectorIndexMetadata(ctx, sourceID); err == nil {
		report.Vector.Ready = true
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	graphMeta, err := p.sources.GetGraphMetadata(ctx, sourceID)
	if err == nil {
		report.Graph.Ready = true
		report.Graph.EntityCount = graphMeta.EntityCount
		report.Graph.RelationCount = graphMeta.RelationCount
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	return report, nil
}

// List returns all sources owned by ownerID, ordered by creation time.
func (p *Pipeline) List(ctx context.Context, ownerID string) ([]*core.Source, error) {
	return p.sources.ListSources(ctx, ownerID)
}

// Delete removes a source and both of its indexes. The primary records
// (source plus metadata rows) are removed transactionally and must succeed;
// the vector collection and graph scope are then cleaned up concurrently,
// with each failure logged and discarded. A source whose index cleanup
// partially fails leaves only unreachable garbage, never a dangling record.
func (p *Pipeline) Delete(ctx context.Context, sourceID, ownerID string) error {
	source, err := p.sources.GetSource(ctx, sourceID)
	if err != nil {
		return err
	}
	if source.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := p.sources.DeleteSource(ctx, sourceID); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := p.vectors.DeleteCollection(ctx, core.CollectionName(sourceID)); err != nil {
			p.logger.Error("error deleting vector collection", "sourceID", sourceID, "err", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := p.graph.DeleteByScope(ctx, sourceID); err != nil {
			p.logger.Error("error deleting graph scope", "sourceID", sourceID, "err", err)
		}
	}()
	wg.Wait()

	p.logger.Info("source deleted", "sourceID", sourceID)
	return nil
}

// Release releases the job pool. In-flight graph builds are abandoned.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.jobs != nil {
		p.jobs.Release()
	}
}
