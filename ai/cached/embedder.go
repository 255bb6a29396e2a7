package cached

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/poiesic/loom/ai"
	"github.com/poiesic/loom/core"
)

// Embedder decorates an ai.Embedder with an in-process LRU cache keyed by
// content hash. Re-ingesting overlapping or repeated chunks then skips the
// embedding service entirely.
type Embedder struct {
	next   ai.Embedder
	cache  *expirable.LRU[core.ID, []float32]
	logger *slog.Logger
}

// NewEmbedder wraps next with an LRU cache of the given size and entry TTL.
// A non-positive size or ttl returns next unwrapped.
func NewEmbedder(next ai.Embedder, size int, ttl time.Duration) ai.Embedder {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &Embedder{
		next:   next,
		cache:  expirable.NewLRU[core.ID, []float32](size, nil, ttl),
		logger: slog.Default().With("component", "cached-embedder"),
	}
}

// EmbedText returns a cached embedding when one exists, delegating otherwise.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := core.IDFromContent(text)
	if vector, ok := e.cache.Get(key); ok {
		e.logger.Debug("embedding cache hit")
		return cloneVector(vector), nil
	}

	vector, err := e.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, cloneVector(vector))
	return vector, nil
}

// EmbedTexts serves what it can from cache and batches the remainder through
// the underlying embedder.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	missing := make([]int, 0, len(texts))
	missingTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		if vector, ok := e.cache.Get(core.IDFromContent(text)); ok {
			vectors[i] = cloneVector(vector)
			continue
		}
		missing = append(missing, i)
		missingTexts = append(missingTexts, text)
	}

	if len(missing) == 0 {
		e.logger.Debug("embedding cache hit for full batch", "count", len(texts))
		return vectors, nil
	}

	fresh, err := e.next.EmbedTexts(ctx, missingTexts)
	if err != nil {
		return nil, err
	}

	for j, i := range missing {
		if j >= len(fresh) {
			break
		}
		vectors[i] = fresh[j]
		e.cache.Add(core.IDFromContent(texts[i]), cloneVector(fresh[j]))
	}

	return vectors, nil
}

func cloneVector(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
