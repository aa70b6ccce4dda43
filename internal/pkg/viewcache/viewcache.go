// Package viewcache batches question view counts in Redis so every page
// view does not turn into a database write. Counts accumulate in a hash
// and are flushed to the durable store on an interval.
package viewcache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tahmid/qpaper/internal/pkg/logger"
)

const (
	viewsKey      = "qpaper:views"
	viewsFlushKey = "qpaper:views:flushing"
)

// Flusher receives the batched counts. Implemented by the question
// repository's IncrementViewCountBy.
type Flusher interface {
	IncrementViewCountBy(ctx context.Context, questionID int64, delta int64) error
}

// viewStore is the slice of the Redis client the cache uses. Declared
// here so tests can substitute a fake.
type viewStore interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Rename(ctx context.Context, key, newkey string) *redis.StatusCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ViewCache accumulates view counts in Redis and flushes them periodically.
type ViewCache struct {
	rdb      viewStore
	flusher  Flusher
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// New creates a ViewCache. Call Start to begin the flush loop.
func New(rdb *redis.Client, flusher Flusher, interval time.Duration) *ViewCache {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ViewCache{
		rdb:      rdb,
		flusher:  flusher,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Record counts one view for the question.
func (v *ViewCache) Record(ctx context.Context, questionID int64) error {
	return v.rdb.HIncrBy(ctx, viewsKey, strconv.FormatInt(questionID, 10), 1).Err()
}

// Start runs the flush loop until Stop is called.
func (v *ViewCache) Start() {
	go func() {
		defer close(v.done)
		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := v.Flush(context.Background()); err != nil {
					logger.Error().Err(err).Msg("View count flush failed")
				}
			case <-v.stop:
				// Final flush so counts recorded since the last tick survive.
				if err := v.Flush(context.Background()); err != nil {
					logger.Error().Err(err).Msg("Final view count flush failed")
				}
				return
			}
		}
	}()
}

// Stop terminates the flush loop after one final flush.
func (v *ViewCache) Stop() {
	close(v.stop)
	<-v.done
}

// Flush moves all accumulated counts into the durable store. The hash is
// renamed first so views recorded during the flush land in a fresh batch.
func (v *ViewCache) Flush(ctx context.Context) error {
	// RENAME answers a missing source key with a server error rather
	// than a nil reply, so probe first; an idle interval is not a
	// failure.
	n, err := v.rdb.Exists(ctx, viewsKey).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil // nothing recorded since last flush
	}

	if err := v.rdb.Rename(ctx, viewsKey, viewsFlushKey).Err(); err != nil {
		return err
	}

	counts, err := v.rdb.HGetAll(ctx, viewsFlushKey).Result()
	if err != nil {
		return err
	}

	for field, raw := range counts {
		questionID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			logger.Warn().Str("field", field).Msg("Skipping malformed view cache entry")
			continue
		}
		delta, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || delta <= 0 {
			continue
		}

		if err := v.flusher.IncrementViewCountBy(ctx, questionID, delta); err != nil {
			// Push the count back so it is retried on the next flush.
			if rerr := v.rdb.HIncrBy(ctx, viewsKey, field, delta).Err(); rerr != nil {
				logger.Error().Err(rerr).Int64("questionID", questionID).Msg("Failed to requeue view count")
			}
			logger.Error().Err(err).Int64("questionID", questionID).Msg("Failed to flush view count")
		}
	}

	return v.rdb.Del(ctx, viewsFlushKey).Err()
}
