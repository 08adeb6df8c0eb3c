package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process Store used in tests and single-node
// deployments without Redis. Values round-trip through JSON so behavior
// matches the Redis store.
type MemoryStore struct {
	cache *gocache.Cache
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, found := s.cache.Get(key)
	if !found {
		return false
	}
	return json.Unmarshal(raw.([]byte), dest) == nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Set(key, raw, ttl)
}
