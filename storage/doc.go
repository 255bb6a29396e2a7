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


// Package storage provides the storage abstraction layer for loom.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. Three repositories exist:
//
//   - SourceRepository: source records and their index metadata rows
//   - VectorRepository: similarity-search collections of embedded chunks
//   - GraphRepository: the source-scoped knowledge graph
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return these interfaces to
// enforce abstraction and keep backends swappable:
//
//	repo, err := badger.NewSourceRepository(backend)  // returns storage.SourceRepository
//
// # Merge-by-Key
//
// Every graph write is an upsert keyed by the record's identity, never a blind
// insert. Repeated runs over overlapping chunks therefore converge to one node
// or edge per key instead of accumulating duplicates; this is what makes graph
// construction idempotent and crash-tolerant (each merge commits atomically).
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
