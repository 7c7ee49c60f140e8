package store

import (
	"context"
	"testing"

	"storefront-bff/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaced_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()

	alice := NewCart(ctx, NewJSONRepository[domain.CartState](Namespaced(kv, "alice"), domain.CartStorageKey))
	bob := NewCart(ctx, NewJSONRepository[domain.CartState](Namespaced(kv, "bob"), domain.CartStorageKey))

	require.NoError(t, alice.AddItem(ctx, product("p1", 10), 2))

	assert.Zero(t, bob.TotalItems())
	assert.Contains(t, kv.data, "session:alice:cart-storage")
	assert.NotContains(t, kv.data, "session:bob:cart-storage")
}
