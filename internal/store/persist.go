package store

import (
	"context"
	"fmt"
	"time"

	"storefront-bff/internal/domain"

	"github.com/goccy/go-json"
)

// storageTimeout bounds one snapshot read or write. Storage calls run on a
// context detached from the request so a client disconnect cannot abort a
// write the in-memory state already reflects.
const storageTimeout = 5 * time.Second

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storageTimeout)
}

// Repository loads and saves one store's full state.
type Repository[S any] interface {
	Load(ctx context.Context) (S, error)
	Save(ctx context.Context, state S) error
}

// JSONRepository persists state as a JSON blob under a fixed key of a
// key-value backend.
type JSONRepository[S any] struct {
	kv  domain.KeyValueStore
	key string
}

func NewJSONRepository[S any](kv domain.KeyValueStore, key string) *JSONRepository[S] {
	return &JSONRepository[S]{kv: kv, key: key}
}

// Load returns the zero state when nothing has been saved yet. A blob that
// cannot be decoded yields the zero state and an error wrapping
// domain.ErrCorruptSnapshot.
func (r *JSONRepository[S]) Load(ctx context.Context) (S, error) {
	var state S
	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return state, &domain.StorageError{Op: "load", Key: r.key, Err: err}
	}
	if !found || len(raw) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		var zero S
		return zero, fmt.Errorf("%w: %s: %v", domain.ErrCorruptSnapshot, r.key, err)
	}
	return state, nil
}

func (r *JSONRepository[S]) Save(ctx context.Context, state S) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: r.key, Err: err}
	}
	if err := r.kv.Set(ctx, r.key, raw); err != nil {
		return &domain.StorageError{Op: "save", Key: r.key, Err: err}
	}
	return nil
}
