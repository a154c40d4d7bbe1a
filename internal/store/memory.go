package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryStore keeps collections in process memory. It backs tests and
// ephemeral runs; nothing survives the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, collection string, dest any) error {
	s.mu.RLock()
	raw, ok := s.data[collection]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	// corrupt payloads read as empty
	_ = json.Unmarshal(raw, dest)
	return nil
}

func (s *MemoryStore) Save(_ context.Context, collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[collection] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string) error {
	s.mu.Lock()
	delete(s.data, collection)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Collections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Corrupt overwrites a collection with a payload that does not parse as
// JSON. Test helper for the swallow-corruption contract.
func (s *MemoryStore) Corrupt(collection string) {
	s.mu.Lock()
	s.data[collection] = []byte("{not json")
	s.mu.Unlock()
}
