package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/phrazzld/catalog-api/internal/media"
)

// MemoryStorage implements media.Storage in memory.
type MemoryStorage struct {
	// PutErr, when set, is returned by Put once FailAfter puts succeeded.
	PutErr    error
	FailAfter int

	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

var _ media.Storage = (*MemoryStorage)(nil)

// Name implements media.Storage.
func (s *MemoryStorage) Name() string { return "memory" }

// Put implements media.Storage.
func (s *MemoryStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil && s.puts >= s.FailAfter {
		return s.PutErr
	}
	if key == "" {
		return errors.New("empty key")
	}
	s.puts++
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// Delete implements media.Storage.
func (s *MemoryStorage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.objects, key)
	}
	return nil
}

// URL implements media.Storage.
func (s *MemoryStorage) URL(key string) string {
	return "http://media.test/" + key
}

// Get returns a stored object.
func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Keys returns every stored key in sorted order.
func (s *MemoryStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
