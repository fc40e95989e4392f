package resultcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn   func(ctx context.Context, key string) ([]byte, error)
	setFn   func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	lastKey string
	lastTTL time.Duration
	lastVal []byte
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.lastKey = key
	m.lastVal = value
	m.lastTTL = ttl
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T) (*Cache, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	c := New(ms, time.Hour, nil, zap.NewNop())
	return c, ms
}
