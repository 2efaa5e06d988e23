package directory

import (
	"context"
	"sync"
)

// Store defines the key-value contract for the business directory.
// Implementations must provide atomic per-key upsert; last writer wins on a
// per-ID basis.
type Store interface {
	Put(ctx context.Context, record Record) error
	Get(ctx context.Context, id string) (*Record, error)
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory directory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put upserts a record keyed by its ID.
func (s *MemoryStore) Put(ctx context.Context, record Record) error {
	if record.ID == "" {
		return ErrInvalidName
	}
	s.mu.Lock()
	s.records[record.ID] = record
	s.mu.Unlock()
	return nil
}

// Get returns the record for an ID, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}
