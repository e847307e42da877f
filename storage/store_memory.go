package storage

import (
	"context"
	"sort"
	"time"

	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
	"github.com/patrickmn/go-cache"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is the ephemeral scope: values live as long as the process.
type MemoryStore struct {
	items *cache.Cache
}

// NewMemoryStore creates an in-memory store. A zero ttl keeps values until
// deleted; a positive ttl expires each value that long after its last Set.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	expiry := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiry = ttl
		cleanup = ttl
	}
	return &MemoryStore{
		items: cache.New(expiry, cleanup),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	v, ok := m.items.Get(key)
	if !ok {
		return "", perrors.ErrNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", perrors.ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	m.items.Set(key, value, cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	m.items.Delete(key)
	return nil
}

func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	items := m.items.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.items.Flush()
	return nil
}
