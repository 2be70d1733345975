package repositories

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a storage key does not exist.
var ErrNotFound = errors.New("storage key not found")

// StorageRepository is a namespaced key-value store standing in for browser
// storage. One namespace holds one client's (or one tab's) keys.
type StorageRepository interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace string, keys ...string) error
	Clear(ctx context.Context, namespace string) error
}
