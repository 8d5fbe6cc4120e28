package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m3movement/dealfinder/internal/domain"
)

const snapshotKey = "dealfinder:snapshot:latest"

// SnapshotCache implements domain.SnapshotCache by storing the latest decoded
// run history as a single JSON value with a TTL. Multiple dashboard backends
// pointed at the same Redis share one ingest this way.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotCache creates a SnapshotCache backed by the given Client. A ttl
// of zero stores the snapshot without expiry.
func NewSnapshotCache(c *Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{rdb: c.Underlying(), ttl: ttl}
}

// Set stores the run history, replacing any previous value.
func (sc *SnapshotCache) Set(ctx context.Context, history domain.RunHistory) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot: %w", err)
	}
	if err := sc.rdb.Set(ctx, snapshotKey, data, sc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot: %w", err)
	}
	return nil
}

// Get retrieves the cached run history. It returns domain.ErrNotFound when no
// snapshot has been cached or the entry has expired.
func (sc *SnapshotCache) Get(ctx context.Context) (domain.RunHistory, error) {
	data, err := sc.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RunHistory{}, domain.ErrNotFound
		}
		return domain.RunHistory{}, fmt.Errorf("redis: get snapshot: %w", err)
	}

	var history domain.RunHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return domain.RunHistory{}, fmt.Errorf("redis: unmarshal snapshot: %w", err)
	}
	return history, nil
}
