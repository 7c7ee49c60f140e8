package cache

import (
	"context"
	"storefront-bff/pkg/cache"
	"time"
)

// KVStore keeps persisted snapshots in the process cache. An entry expires
// ttl after its last write, which plays the part of storage eviction.
type KVStore struct {
	store cache.CacheService
	ttl   time.Duration
}

// NewKVStore exposes a CacheService as a snapshot key-value backend.
func NewKVStore(store cache.CacheService, ttl time.Duration) *KVStore {
	return &KVStore{store: store, ttl: ttl}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := s.store.Get(key)
	if !found {
		return nil, false, nil
	}
	raw, _ := val.([]byte)
	return append([]byte(nil), raw...), true, nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.store.Set(key, append([]byte(nil), value...), s.ttl)
	return nil
}
