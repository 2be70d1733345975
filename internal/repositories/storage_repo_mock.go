package repositories

import (
	"context"
	"sync"
)

// MockStorageRepository is an in-memory implementation of StorageRepository.
type MockStorageRepository struct {
	data map[string]map[string]string
	mu   sync.RWMutex
}

// NewMockStorageRepository creates a new instance of MockStorageRepository.
func NewMockStorageRepository() *MockStorageRepository {
	return &MockStorageRepository{
		data: make(map[string]map[string]string),
	}
}

// Get returns a key's value.
func (r *MockStorageRepository) Get(_ context.Context, namespace, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	val, ok := r.data[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

// Set stores a key's value.
func (r *MockStorageRepository) Set(_ context.Context, namespace, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data[namespace] == nil {
		r.data[namespace] = make(map[string]string)
	}
	r.data[namespace][key] = value
	return nil
}

// Delete removes keys.
func (r *MockStorageRepository) Delete(_ context.Context, namespace string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.data[namespace], k)
	}
	return nil
}

// Clear removes a namespace.
func (r *MockStorageRepository) Clear(_ context.Context, namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, namespace)
	return nil
}
