package testhelpers

import (
	"context"
	"sort"
	"sync"

	"domly/pkg/storage"
)

// MemoryStore is an in-memory storage.Store. FailPut, when set, is consulted before every Put.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	FailPut func(key string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, key string, data []byte, contentType string) (storage.Object, error) {
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return storage.Object{}, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return storage.Object{Key: key, URL: m.URL(key), ContentType: contentType, Size: int64(len(data))}, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) URL(key string) string {
	return "http://files.test/uploads/" + key
}

// Keys returns the stored keys, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
