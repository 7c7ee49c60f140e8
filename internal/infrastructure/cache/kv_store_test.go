package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_SetGet(t *testing.T) {
	ctx := context.Background()
	kv := NewKVStore(NewMemoryCache(time.Minute, time.Minute), time.Minute)

	_, found, err := kv.Get(ctx, "cart-storage")
	require.NoError(t, err)
	assert.False(t, found)

	payload := []byte(`{"items":[]}`)
	require.NoError(t, kv.Set(ctx, "cart-storage", payload))
	payload[0] = 'X'

	got, found, err := kv.Get(ctx, "cart-storage")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"items":[]}`, string(got))
}

func TestKVStore_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	kv := NewKVStore(NewMemoryCache(time.Minute, time.Minute), 20*time.Millisecond)
	require.NoError(t, kv.Set(ctx, "k", []byte("v")))

	require.Eventually(t, func() bool {
		_, found, _ := kv.Get(ctx, "k")
		return !found
	}, time.Second, 5*time.Millisecond)
}
