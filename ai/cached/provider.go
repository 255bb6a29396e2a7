package cached

import (
	"time"

	"github.com/poiesic/loom/ai"
)

// Provider decorates an ai.AIProvider so that its Embedder is cached while
// the extractor and answerer pass through untouched.
type Provider struct {
	next     ai.AIProvider
	embedder ai.Embedder
}

// NewProvider wraps next with a cached embedder of the given size and TTL.
// A non-positive size or ttl returns next unwrapped.
func NewProvider(next ai.AIProvider, size int, ttl time.Duration) ai.AIProvider {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &Provider{
		next:     next,
		embedder: NewEmbedder(next.Embedder(), size, ttl),
	}
}

// Embedder returns the cache-decorated embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// GraphExtractor returns the underlying extraction service.
func (p *Provider) GraphExtractor() ai.GraphExtractor {
	return p.next.GraphExtractor()
}

// Answerer returns the underlying answer service.
func (p *Provider) Answerer() ai.Answerer {
	return p.next.Answerer()
}

// Close closes the underlying provider.
func (p *Provider) Close() error {
	return p.next.Close()
}
