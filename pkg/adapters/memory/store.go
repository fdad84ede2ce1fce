package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
)

// Store implements ports.SchemaStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// NewFromDocuments creates a store pre-populated with raw schema documents.
// It fails on the first invalid name.
func NewFromDocuments(docs map[string]string) (*Store, error) {
	s := NewStore()
	for name, doc := range docs {
		if err := ports.ValidateName(name); err != nil {
			return nil, fmt.Errorf("seed %q: %w", name, err)
		}
		s.data[name] = []byte(doc)
	}
	return s, nil
}

// Save stores a copy of data under name.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = slices.Clone(data)
	return nil
}

// Load returns a copy of the document so callers can't mutate the store.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", schema.ErrNotFound, name)
	}
	return slices.Clone(data), nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
