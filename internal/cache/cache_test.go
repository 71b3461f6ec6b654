package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return errors.New("miss")
	}
	return json.Unmarshal(b, dest)
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := &mapCache{data: map[string][]byte{}}
	calls := 0
	fn := func() ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	got, err := GetOrSet(ctx, c, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	got, err = GetOrSet(ctx, c, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Delete(ctx, "k"))
	_, _ = GetOrSet(ctx, c, "k", time.Minute, fn)
	assert.Equal(t, 2, calls)
}

func TestGetOrSetPropagatesErrorsAndNilCache(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	_, err := GetOrSet(ctx, &mapCache{data: map[string][]byte{}}, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := GetOrSet[int](ctx, nil, "k", time.Minute, func() (int, error) { return 5, nil })
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}
