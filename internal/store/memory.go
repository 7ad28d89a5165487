package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage

	// FailGet and FailUpsert simulate collaborator failures per collection.
	FailGet    map[string]error
	FailUpsert map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]map[string]json.RawMessage),
		FailGet:    make(map[string]error),
		FailUpsert: make(map[string]error),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailUpsert[collection]; err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][id] = json.RawMessage(data)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.FailGet[collection]; err != nil {
		return err
	}

	raw, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (s *MemoryStore) List(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]json.RawMessage, len(s.data[collection]))
	for id, raw := range s.data[collection] {
		docs[id] = raw
	}
	return docs, nil
}

// Len reports how many documents a collection holds.
func (s *MemoryStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

func (s *MemoryStore) Close() error {
	return nil
}
