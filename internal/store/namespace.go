package store

import (
	"context"

	"storefront-bff/internal/domain"
)

type namespaced struct {
	kv     domain.KeyValueStore
	prefix string
}

// Namespaced scopes kv to one shopper so every session gets its own
// "cart-storage" and "favorites-storage" keys.
func Namespaced(kv domain.KeyValueStore, namespace string) domain.KeyValueStore {
	return &namespaced{kv: kv, prefix: "session:" + namespace + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.kv.Set(ctx, n.prefix+key, value)
}
