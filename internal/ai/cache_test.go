package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func TestCached_HitAndMiss(t *testing.T) {
	next := &scriptedEnricher{}
	store := newMapStore()
	c := NewCached(next, store, time.Hour, nil)

	first, err := c.Enrich(context.Background(), "Happy")
	require.NoError(t, err)
	second, err := c.Enrich(context.Background(), " happy ")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.Meaning, second.Meaning)
	assert.Equal(t, time.Hour, store.ttls["enrich:happy"])
}

func TestCached_RegenerateBypassesCache(t *testing.T) {
	next := &scriptedEnricher{}
	c := NewCached(next, newMapStore(), time.Hour, nil)

	_, err := c.Enrich(context.Background(), "happy")
	require.NoError(t, err)
	_, err = c.Regenerate(context.Background(), "happy")
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCached_StoreFailureFallsThrough(t *testing.T) {
	next := &scriptedEnricher{}
	store := newMapStore()
	store.getErr = errors.New("redis down")
	c := NewCached(next, store, time.Hour, nil)

	result, err := c.Enrich(context.Background(), "happy")
	require.NoError(t, err)
	assert.Equal(t, "arti happy", result.Meaning)
}

func TestCached_Warm(t *testing.T) {
	next := &scriptedEnricher{}
	c := NewCached(next, newMapStore(), time.Hour, nil)

	fetched, err := c.Warm(context.Background(), "happy")
	require.NoError(t, err)
	assert.True(t, fetched)

	fetched, err = c.Warm(context.Background(), "HAPPY")
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, 1, next.calls)
}

func TestInstrumented_RegenerateForwards(t *testing.T) {
	next := &scriptedEnricher{}
	c := NewCached(next, newMapStore(), time.Hour, nil)
	i := NewInstrumented(c)

	_, err := i.Enrich(context.Background(), "happy")
	require.NoError(t, err)
	_, err = i.Regenerate(context.Background(), "happy")
	require.NoError(t, err)
	_, err = i.Enrich(context.Background(), "happy")
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}
