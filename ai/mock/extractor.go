package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/loom/ai"
)

// MockGraphExtractor is a test double for ai.GraphExtractor.
// It allows custom behavior injection via function fields.
type MockGraphExtractor struct {
	// ExtractGraphFunc is called by ExtractGraph if set.
	// If nil, uses default simple word extraction.
	ExtractGraphFunc func(ctx context.Context, text string, schema ai.ExtractionSchema) (*ai.ExtractedGraph, error)

	mu        sync.Mutex
	callCount int
}

// NewMockGraphExtractor creates a mock graph extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGraphExtractor() *MockGraphExtractor {
	return &MockGraphExtractor{}
}

// ExtractGraph extracts simple mock entities from text.
// Default behavior: the first few distinct words become nodes, consecutive
// nodes are linked with RELATED_TO edges.
func (m *MockGraphExtractor) ExtractGraph(ctx context.Context, text string, schema ai.ExtractionSchema) (*ai.ExtractedGraph, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractGraphFunc != nil {
		return m.ExtractGraphFunc(ctx, text, schema)
	}

	nodeType := "thing"
	relType := "RELATED_TO"
	if len(schema.AllowedNodeTypes) > 0 {
		nodeType = schema.AllowedNodeTypes[len(schema.AllowedNodeTypes)-1]
	}
	if len(schema.AllowedRelationshipTypes) > 0 {
		relType = schema.AllowedRelationshipTypes[len(schema.AllowedRelationshipTypes)-1]
	}

	graph := &ai.ExtractedGraph{}
	seen := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		graph.Nodes = append(graph.Nodes, ai.ExtractedNode{ID: word, Type: nodeType})
		if len(graph.Nodes) >= 5 {
			break
		}
	}

	for i := 1; i < len(graph.Nodes); i++ {
		graph.Relationships = append(graph.Relationships, ai.ExtractedRelationship{
			Source: graph.Nodes[i-1].ID,
			Target: graph.Nodes[i].ID,
			Type:   relType,
		})
	}

	return graph, nil
}

// CallCount returns the number of extraction calls made.
func (m *MockGraphExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count.
func (m *MockGraphExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
}

var _ ai.GraphExtractor = (*MockGraphExtractor)(nil)
