package badger

import (
	"github.com/poiesic/loom/storage"
)

// Repositories bundles the three repositories sharing one backend.
type Repositories struct {
	Backend *Backend
	Sources storage.SourceRepository
	Vectors storage.VectorRepository
	Graph   storage.GraphRepository
}

// NewRepositories opens a backend at path and wires all repositories on it.
func NewRepositories(path string) (*Repositories, error) {
	return newRepositories(path, false)
}

// NewMemoryRepositories wires all repositories on an in-memory backend.
// Intended for tests and ephemeral runs.
func NewMemoryRepositories() (*Repositories, error) {
	return newRepositories("", true)
}

func newRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	sources, err := NewSourceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	vectors, err := NewVectorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	graph, err := NewGraphRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Backend: backend,
		Sources: sources,
		Vectors: vectors,
		Graph:   graph,
	}, nil
}

// Close closes the shared backend.
func (r *Repositories) Close() error {
	return r.Backend.Close()
}
