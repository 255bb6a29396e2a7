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


// Package search provides hybrid retrieval over the vector and graph indexes.
//
// The Retriever anchors on entities matching the query text and expands a
// bounded number of relationship hops around them, scoring by match quality
// and hop distance. The Searcher fuses those graph facts with similarity-
// ranked chunks and can hand the combined evidence to an answer service.
//
// Retrieval never crosses source scopes: callers name the sources to search
// and every anchor, hop and chunk stays inside them.
package search
