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


package mock

import (
	"context"

	"github.com/poiesic/loom/ai"
)

// MockAnswerer is a test double for ai.Answerer.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	AnswerFunc func(ctx context.Context, query string, contextText string) (string, error)
}

// Answer returns a canned answer echoing the query.
func (m *MockAnswerer) Answer(ctx context.Context, query string, contextText string) (string, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, query, contextText)
	}
	return "mock answer: " + query, nil
}

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder, extractor and answerer instances.
type MockProvider struct {
	embedder  *MockEmbedder
	extractor *MockGraphExtractor
	answerer  *MockAnswerer
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockExtractor() to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		extractor: NewMockGraphExtractor(),
		answerer:  &MockAnswerer{},
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, extractor *MockGraphExtractor) ai.AIProvider {
	return &MockProvider{
		embedder:  embedder,
		extractor: extractor,
		answerer:  &MockAnswerer{},
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// GraphExtractor returns the mock graph extractor.
func (p *MockProvider) GraphExtractor() ai.GraphExtractor {
	return p.extractor
}

// Answerer returns the mock answerer.
func (p *MockProvider) Answerer() ai.Answerer {
	return p.answerer
}

// Close is a no-op for mocks.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockExtractor returns the concrete mock extractor for test assertions.
func (p *MockProvider) GetMockExtractor() *MockGraphExtractor {
	return p.extractor
}
