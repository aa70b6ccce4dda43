package viewcache

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlusher struct {
	deltas  map[int64]int64
	failFor map[int64]error
}

func (f *fakeFlusher) IncrementViewCountBy(_ context.Context, questionID, delta int64) error {
	if err := f.failFor[questionID]; err != nil {
		return err
	}
	if f.deltas == nil {
		f.deltas = map[int64]int64{}
	}
	f.deltas[questionID] += delta
	return nil
}

// fakeStore holds hashes in memory and mimics Redis command semantics,
// including RENAME answering a missing source with a server error.
type fakeStore struct {
	hashes map[string]map[string]string
	calls  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{hashes: map[string]map[string]string{}}
}

func (s *fakeStore) HIncrBy(_ context.Context, key, field string, incr int64) *redis.IntCmd {
	s.calls = append(s.calls, "HINCRBY "+key)
	h := s.hashes[key]
	if h == nil {
		h = map[string]string{}
		s.hashes[key] = h
	}
	current, _ := strconv.ParseInt(h[field], 10, 64)
	current += incr
	h[field] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (s *fakeStore) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	s.calls = append(s.calls, "EXISTS "+keys[0])
	var n int64
	for _, key := range keys {
		if len(s.hashes[key]) > 0 {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (s *fakeStore) Rename(_ context.Context, key, newkey string) *redis.StatusCmd {
	s.calls = append(s.calls, "RENAME "+key)
	h, ok := s.hashes[key]
	if !ok || len(h) == 0 {
		return redis.NewStatusResult("", errors.New("ERR no such key"))
	}
	delete(s.hashes, key)
	s.hashes[newkey] = h
	return redis.NewStatusResult("OK", nil)
}

func (s *fakeStore) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	out := map[string]string{}
	for field, raw := range s.hashes[key] {
		out[field] = raw
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (s *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := s.hashes[key]; ok {
			delete(s.hashes, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func newTestCache(store *fakeStore, flusher *fakeFlusher) *ViewCache {
	return &ViewCache{
		rdb:     store,
		flusher: flusher,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func TestFlushIdleIntervalIsNotAnError(t *testing.T) {
	store := newFakeStore()
	cache := newTestCache(store, &fakeFlusher{})

	// No views recorded since the last flush.
	require.NoError(t, cache.Flush(context.Background()))

	// The missing hash must never reach RENAME, whose "no such key"
	// reply would surface as a spurious failure.
	assert.NotContains(t, store.calls, "RENAME "+viewsKey)
}

func TestFlushMovesCountsToDurableStore(t *testing.T) {
	store := newFakeStore()
	flusher := &fakeFlusher{}
	cache := newTestCache(store, flusher)

	ctx := context.Background()
	require.NoError(t, cache.Record(ctx, 7))
	require.NoError(t, cache.Record(ctx, 7))
	require.NoError(t, cache.Record(ctx, 12))

	require.NoError(t, cache.Flush(ctx))

	assert.Equal(t, map[int64]int64{7: 2, 12: 1}, flusher.deltas)
	assert.Empty(t, store.hashes[viewsKey])
	assert.Empty(t, store.hashes[viewsFlushKey])

	// Nothing left over; the next interval is idle again.
	require.NoError(t, cache.Flush(ctx))
	assert.Equal(t, map[int64]int64{7: 2, 12: 1}, flusher.deltas)
}

func TestFlushRequeuesCountsTheStoreRejected(t *testing.T) {
	store := newFakeStore()
	flusher := &fakeFlusher{failFor: map[int64]error{7: errors.New("db down")}}
	cache := newTestCache(store, flusher)

	ctx := context.Background()
	require.NoError(t, cache.Record(ctx, 7))
	require.NoError(t, cache.Record(ctx, 12))

	require.NoError(t, cache.Flush(ctx))

	// The failed count is back in the live hash for the next flush.
	assert.Equal(t, "1", store.hashes[viewsKey]["7"])
	assert.Equal(t, map[int64]int64{12: 1}, flusher.deltas)
}

func TestFlushSkipsMalformedEntries(t *testing.T) {
	store := newFakeStore()
	flusher := &fakeFlusher{}
	cache := newTestCache(store, flusher)

	ctx := context.Background()
	store.hashes[viewsKey] = map[string]string{"7": "3", "garbage": "1", "12": "-2"}

	require.NoError(t, cache.Flush(ctx))

	assert.Equal(t, map[int64]int64{7: 3}, flusher.deltas)
}
