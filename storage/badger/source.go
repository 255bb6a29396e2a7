package badger

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/loom/core"
	"github.com/poiesic/loom/storage"
)

// SourceRepository implements storage.SourceRepository on a badger backend.
type SourceRepository struct {
	backend *Backend
	logger  *slog.Logger
}

// NewSourceRepository creates a source repository.
//
// Returns storage.SourceRepository interface to enforce abstraction.
func NewSourceRepository(backend *Backend) (storage.SourceRepository, error) {
	return newSourceRepository(backend)
}

func newSourceRepository(backend *Backend) (*SourceRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &SourceRepository{
		backend: backend,
		logger:  slog.Default().With("component", "source-repository"),
	}, nil
}

// CreateSource stores a new source record and its owner index entry.
func (r *SourceRepository) CreateSource(ctx context.Context, source *core.Source) error {
	if err := core.ValidateSource(source); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSourceKey(source.ID), storage.MarshalSource(source)); err != nil {
			return err
		}
		return tx.Set(makeSourceOwnerKey(source.OwnerID, source.ID), nil)
	}, true)
}

// GetSource retrieves a source by ID.
func (r *SourceRepository) GetSource(ctx context.Context, id string) (*core.Source, error) {
	var source *core.Source
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			source, err = storage.UnmarshalSource(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return source, nil
}

// ListSources retrieves all sources owned by ownerID, ordered by creation time.
func (r *SourceRepository) ListSources(ctx context.Context, ownerID string) ([]*core.Source, error) {
	var ids []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix(sourceOwnerPrefix, ownerID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			ids = append(ids, string(key[len(opts.Prefix):]))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sources := make([]*core.Source, 0, len(ids))
	for _, id := range ids {
		source, err := r.GetSource(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue // index entry outlived the record
			}
			return nil, err
		}
		sources = append(sources, source)
	}

	slices.SortStableFunc(sources, func(a, b *core.Source) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return sources, nil
}

// UpdateSourceStatus moves a source through its lifecycle state machine.
func (r *SourceRepository) UpdateSourceStatus(ctx context.Context, id string, status core.SourceStatus) error {
	if err := core.ValidateStatus(status); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var source *core.Source
		if err := item.Value(func(val []byte) error {
			source, err = storage.UnmarshalSource(val)
			return err
		}); err != nil {
			return err
		}

		if !source.Status.CanTransition(status) {
			return core.ErrInvalidTransition
		}

		r.logger.Debug("source status transition",
			"sourceID", id, "from", source.Status.String(), "to", status.String())
		source.Status = status
		return tx.Set(makeSourceKey(id), storage.MarshalSource(source))
	}, true)
}

// PutVectorIndexMetadata records that a source's vector collection is ready.
func (r *SourceRepository) PutVectorIndexMetadata(ctx context.Context, meta *core.VectorIndexMetadata) error {
	if meta == nil || meta.SourceID == "" {
		return core.ErrEmptySourceID
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeVectorMetaKey(meta.SourceID), storage.MarshalVectorIndexMetadata(meta))
	}, true)
}

// GetVectorIndexMetadata retrieves a source's vector index metadata.
func (r *SourceRepository) GetVectorIndexMetadata(ctx context.Context, sourceID string) (*core.VectorIndexMetadata, error) {
	var meta *core.VectorIndexMetadata
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorMetaKey(sourceID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			meta, err = storage.UnmarshalVectorIndexMetadata(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// PutGraphMetadata records a completed graph build.
func (r *SourceRepository) PutGraphMetadata(ctx context.Context, meta *core.GraphMetadata) error {
	if meta == nil || meta.SourceID == "" {
		return core.ErrEmptySourceID
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeGraphMetaKey(meta.SourceID), storage.MarshalGraphMetadata(meta))
	}, true)
}

// GetGraphMetadata retrieves a source's graph metadata.
func (r *SourceRepository) GetGraphMetadata(ctx context.Context, sourceID string) (*core.GraphMetadata, error) {
	var meta *core.GraphMetadata
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeGraphMetaKey(sourceID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			meta, err = storage.UnmarshalGraphMetadata(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// DeleteSource removes the source record, its owner index entry and both
// metadata rows in one transaction.
func (r *SourceRepository) DeleteSource(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var source *core.Source
		if err := item.Value(func(val []byte) error {
			source, err = storage.UnmarshalSource(val)
			return err
		}); err != nil {
			return err
		}

		if err := tx.Delete(makeSourceKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(makeSourceOwnerKey(source.OwnerID, id)); err != nil {
			return err
		}
		if err := tx.Delete(makeVectorMetaKey(id)); err != nil {
			return err
		}
		return tx.Delete(makeGraphMetaKey(id))
	}, true)
}

// Close closes the repository. The shared backend is closed by its owner.
func (r *SourceRepository) Close() error {
	return nil
}
