package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SchemaVersion is the version stamped on every stored record. Records with
// another version are treated as absent.
const SchemaVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Scope is one namespace of a StorageRepository with typed JSON access.
type Scope struct {
	repo      StorageRepository
	namespace string
}

// NewScope binds a repository to a namespace.
func NewScope(repo StorageRepository, namespace string) Scope {
	return Scope{repo: repo, namespace: namespace}
}

// Namespace returns the bound namespace.
func (s Scope) Namespace() string { return s.namespace }

// Load decodes key into v. It reports false when the key is missing, holds
// corrupt JSON, or was written under a different schema version.
func (s Scope) Load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.repo.Get(ctx, s.namespace, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Version != SchemaVersion || len(env.Data) == 0 {
		log.Debug().Str("namespace", s.namespace).Str("key", key).Msg("discarding unreadable stored record")
		return false, nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		log.Debug().Err(err).Str("namespace", s.namespace).Str("key", key).Msg("discarding stored record with stale shape")
		return false, nil
	}
	return true, nil
}

// Save encodes v under key.
func (s Scope) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", key, err)
	}
	return s.repo.Set(ctx, s.namespace, key, string(raw))
}

// SaveOrRemove saves v, or removes key when present is false.
func (s Scope) SaveOrRemove(ctx context.Context, key string, v any, present bool) error {
	if !present {
		return s.Remove(ctx, key)
	}
	return s.Save(ctx, key, v)
}

// Remove deletes keys.
func (s Scope) Remove(ctx context.Context, keys ...string) error {
	return s.repo.Delete(ctx, s.namespace, keys...)
}

// Clear deletes every key in the scope.
func (s Scope) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx, s.namespace)
}
