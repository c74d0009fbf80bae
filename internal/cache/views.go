package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewKeyPrefix = "article_views:"

// NewRedisClient connects to redisURL and verifies the connection.
func NewRedisClient(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// ViewCounter buffers article views in Redis until they are flushed to the database.
// A ViewCounter without a client counts nothing.
type ViewCounter struct {
	client *redis.Client
	logger *slog.Logger
}

func NewViewCounter(client *redis.Client, logger *slog.Logger) *ViewCounter {
	return &ViewCounter{client: client, logger: logger}
}

func viewKey(articleID int64) string {
	return viewKeyPrefix + strconv.FormatInt(articleID, 10)
}

func parseViewKey(key string) (int64, bool) {
	raw, ok := strings.CutPrefix(key, viewKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Incr records one view and returns the number of views not yet flushed.
func (v *ViewCounter) Incr(ctx context.Context, articleID int64) (int64, error) {
	if v == nil || v.client == nil {
		// No-op when Redis is unavailable
		return 0, nil
	}
	return v.client.Incr(ctx, viewKey(articleID)).Result()
}

// Flush hands every buffered counter to apply and returns how many articles were flushed.
// Counters are taken with GETDEL so concurrent increments land in a fresh key;
// when apply fails the delta is put back.
func (v *ViewCounter) Flush(ctx context.Context, apply func(ctx context.Context, articleID, delta int64) error) (int, error) {
	if v == nil || v.client == nil {
		return 0, nil
	}

	flushed := 0
	iter := v.client.Scan(ctx, 0, viewKeyPrefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		articleID, ok := parseViewKey(key)
		if !ok {
			continue
		}

		delta, err := v.client.GetDel(ctx, key).Int64()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				v.logger.Warn("failed to read view counter", "key", key, "error", err)
			}
			continue
		}
		if delta <= 0 {
			continue
		}

		if err := apply(ctx, articleID, delta); err != nil {
			v.logger.Error("failed to flush views", "article_id", articleID, "delta", delta, "error", err)
			if restoreErr := v.client.IncrBy(ctx, key, delta).Err(); restoreErr != nil {
				v.logger.Error("failed to restore view counter", "article_id", articleID, "delta", delta, "error", restoreErr)
			}
			continue
		}
		flushed++
	}
	return flushed, iter.Err()
}
