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
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

// GraphRepository implements storage.GraphRepository on a badger backend.
// Every node and edge key embeds the source scope, which makes scope isolation
// a property of key layout rather than of query discipline, and whole-scope
// deletion a set of prefix drops.
type GraphRepository struct {
	backend *Backend
	logger  *slog.Logger
}

// NewGraphRepository creates a graph repository.
func NewGraphRepository(backend *Backend) (storage.GraphRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &GraphRepository{
		backend: backend,
		logger:  slog.Default().With("component", "graph-repository"),
	}, nil
}

// MergeScope creates the graph-side record for a source, idempotently.
func (r *GraphRepository) MergeScope(ctx context.Context, sourceID string) error {
	if sourceID == "" {
		return core.ErrEmptySourceID
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeScopeKey(sourceID), nil)
	}, true)
}

// MergeEntity upserts an entity keyed (Name, SourceID). Badger transactions
// serialize conflicting writes, so concurrent merges of the same key converge
// to one record.
func (r *GraphRepository) MergeEntity(ctx context.Context, entity *core.Entity) error {
	if err := core.ValidateEntity(entity); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeEntityKey(entity.SourceID, entity.Name), storage.MarshalEntity(entity))
	}, true)
}

// MergeFileNode upserts a file node keyed (Path, SourceID).
func (r *GraphRepository) MergeFileNode(ctx context.Context, file *core.FileNode) error {
	if file == nil || file.SourceID == "" {
		return core.ErrEmptySourceID
	}
	if file.Path == "" {
		return core.ErrInvalidEntity
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeFileKey(file.SourceID, file.Path), storage.MarshalFileNode(file))
	}, true)
}

// MergeRelationship upserts a directed edge keyed (SourceID, From, To, Type).
// The edge is written under both endpoints so Neighbors can scan either
// direction without an index lookup.
func (r *GraphRepository) MergeRelationship(ctx context.Context, rel *core.Relationship) error {
	if err := core.ValidateRelationship(rel); err != nil {
		return err
	}
	value := storage.MarshalRelationship(rel)
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeRelForwardKey(rel), value); err != nil {
			return err
		}
		return tx.Set(makeRelReverseKey(rel), value)
	}, true)
}

// MergeMention upserts a file-mentions-entity edge.
func (r *GraphRepository) MergeMention(ctx context.Context, mention *core.Mention) error {
	if mention == nil || mention.SourceID == "" {
		return core.ErrEmptySourceID
	}
	if mention.Entity == "" || mention.Path == "" {
		return core.ErrInvalidEntity
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeMentionKey(mention.SourceID, mention.Entity, mention.Path), nil)
	}, true)
}

// GetEntity retrieves one entity by scope and name.
func (r *GraphRepository) GetEntity(ctx context.Context, sourceID, name string) (*core.Entity, error) {
	var entity *core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEntityKey(sourceID, name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			entity, err = storage.UnmarshalEntity(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// EntitiesByScope returns every entity of one source, in key order.
func (r *GraphRepository) EntitiesByScope(ctx context.Context, sourceID string) ([]*core.Entity, error) {
	var entities []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix(entityPrefix, sourceID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				entity, err := storage.UnmarshalEntity(val)
				if err != nil {
					return err
				}
				entities = append(entities, entity)
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
	return entities, nil
}

// Neighbors returns every relationship touching the named entity in the given
// scope, outgoing edges first.
func (r *GraphRepository) Neighbors(ctx context.Context, sourceID, name string) ([]*core.Relationship, error) {
	var rels []*core.Relationship
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range [][]byte{
			scanPrefix(relForwardPrefix, sourceID, name),
			scanPrefix(relReversePrefix, sourceID, name),
		} {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			iter := tx.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				err := iter.Item().Value(func(val []byte) error {
					rel, err := storage.UnmarshalRelationship(val)
					if err != nil {
						return err
					}
					rels = append(rels, rel)
					return nil
				})
				if err != nil {
					iter.Close()
					return err
				}
			}
			iter.Close()
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return rels, nil
}

// MentionsOf returns the paths of files that mention the named entity.
func (r *GraphRepository) MentionsOf(ctx context.Context, sourceID, entity string) ([]string, error) {
	var paths []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix(mentionPrefix, sourceID, entity)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			paths = append(paths, string(key[len(opts.Prefix):]))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// CountEntities returns the number of entities in a scope.
func (r *GraphRepository) CountEntities(ctx context.Context, sourceID string) (int, error) {
	return r.countPrefix(scanPrefix(entityPrefix, sourceID))
}

// CountRelationships returns the number of relationship edges in a scope.
// Edges are stored twice, once per endpoint, so only the forward copies are
// counted.
func (r *GraphRepository) CountRelationships(ctx context.Context, sourceID string) (int, error) {
	return r.countPrefix(scanPrefix(relForwardPrefix, sourceID))
}

func (r *GraphRepository) countPrefix(prefix []byte) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteByScope removes every node and edge belonging to a source. Deleting a
// scope that doesn't exist is not an error.
func (r *GraphRepository) DeleteByScope(ctx context.Context, sourceID string) error {
	if sourceID == "" {
		return core.ErrEmptySourceID
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Delete(makeScopeKey(sourceID))
	}, true)
	if err != nil {
		return err
	}
	return r.backend.DropPrefix(
		scanPrefix(entityPrefix, sourceID),
		scanPrefix(filePrefix, sourceID),
		scanPrefix(relForwardPrefix, sourceID),
		scanPrefix(relReversePrefix, sourceID),
		scanPrefix(mentionPrefix, sourceID),
	)
}

// Close closes the repository. The shared backend is closed by its owner.
func (r *GraphRepository) Close() error {
	return nil
}
