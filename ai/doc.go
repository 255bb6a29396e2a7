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


// Package ai provides abstractions for the AI services used in loom.
//
// This package defines interfaces for AI operations: text embeddings, typed
// entity/relationship extraction, and grounded answer generation. It follows
// the dependency inversion principle, allowing the ingestion pipeline and the
// retrieval engine to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - GraphExtractor: Extracts typed entities and relationships from text
//   - Answerer: Generates answers grounded in retrieved evidence
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes three sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/cached: LRU caching decorator for Embedder
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockGraphExtractor) return concrete types to
// enable behavior injection and call-count assertions.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "hello world")
//	graph, err := provider.GraphExtractor().ExtractGraph(ctx, text, ai.RepoSchema())
package ai
