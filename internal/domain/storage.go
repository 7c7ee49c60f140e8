package domain

import "context"

// KeyValueStore is the byte-level persistence backend behind the cart and
// favorites snapshots. Get reports found=false for an absent key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
