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

package badger

import (
	"context"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

// VectorRepository implements storage.VectorRepository on a badger backend.
// Chunks live under per-collection key prefixes; similarity search is a
// brute-force scan over the collection, which is adequate for per-source
// collections of a few thousand chunks.
type VectorRepository struct {
	backend *Backend
	logger  *slog.Logger
}

// NewVectorRepository creates a vector repository.
func NewVectorRepository(backend *Backend) (storage.VectorRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &VectorRepository{
		backend: backend,
		logger:  slog.Default().With("component", "vector-repository"),
	}, nil
}

// UpsertChunks writes chunks into a collection. A chunk ID already present in
// the collection is overwritten.
func (r *VectorRepository) UpsertChunks(ctx context.Context, collection string, chunks []*core.StoredChunk) error {
	if collection == "" {
		return storage.ErrCollectionRequired
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := tx.Set(makeChunkKey(collection, chunk.Id), storage.MarshalStoredChunk(chunk)); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// SimilaritySearch returns the numResults chunks in the collection closest to
// the query vector, best first. An empty or missing collection yields an
// empty result, not an error.
func (r *VectorRepository) SimilaritySearch(ctx context.Context, collection string, vector []float32, numResults int) ([]*core.ChunkMatch, error) {
	if collection == "" {
		return nil, storage.ErrCollectionRequired
	}
	if numResults <= 0 {
		return nil, nil
	}

	var matches []*core.ChunkMatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix(collectionPrefix, collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				chunk, err := storage.UnmarshalStoredChunk(val)
				if err != nil {
					return err
				}
				matches = append(matches, &core.ChunkMatch{
					Chunk: chunk,
					Score: dotProduct(vector, chunk.Vector),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > numResults {
		matches = matches[:numResults]
	}
	return matches, nil
}

// DeleteCollection removes every chunk in the collection. Deleting a
// collection that does not exist is not an error.
func (r *VectorRepository) DeleteCollection(ctx context.Context, collection string) error {
	if collection == "" {
		return storage.ErrCollectionRequired
	}
	return r.backend.DropPrefix(scanPrefix(collectionPrefix, collection))
}

// Close closes the repository. The shared backend is closed by its owner.
func (r *VectorRepository) Close() error {
	return nil
}

// dotProduct computes the inner product of two vectors. Embedding models in
// use here return normalized vectors, so this orders identically to cosine
// similarity. Mismatched lengths score over the shorter span.
func dotProduct(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
