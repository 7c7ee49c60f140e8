package store

import (
	"context"
	"errors"
	"sync"
)

var errBackendDown = errors.New("backend down")

// memKV is an in-memory domain.KeyValueStore with switchable failures. Like
// the network backends it gives up once ctx is done.
type memKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	failGet  bool
	failSet  bool
	setCalls int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if m.failGet {
		return nil, false, errBackendDown
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.failSet {
		return errBackendDown
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}
