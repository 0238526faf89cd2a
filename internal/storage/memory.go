package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/parchmentlab/parchment/internal/doctree"
)

// MemoryStore is an in-process TreeStore used by tests and dry runs. It
// round-trips trees through JSON so callers exercise the same serialization
// path as the SQLite store.
type MemoryStore struct {
	mu       sync.Mutex
	payloads map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string]string)}
}

// Load returns the tree saved under key, or false when never saved.
func (s *MemoryStore) Load(_ context.Context, key string) (doctree.Tree, bool, error) {
	if key == "" {
		return nil, false, ErrMissingKey
	}
	s.mu.Lock()
	payload, ok := s.payloads[key]
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	var tree doctree.Tree
	if err := json.Unmarshal([]byte(payload), &tree); err != nil {
		return nil, false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return tree, true, nil
}

// Save replaces the tree saved under key.
func (s *MemoryStore) Save(_ context.Context, key string, tree doctree.Tree) error {
	if key == "" {
		return ErrMissingKey
	}
	payload, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	s.mu.Lock()
	s.payloads[key] = string(payload)
	s.mu.Unlock()
	return nil
}
