package domain

import (
	"context"
	"time"
)

// SnapshotCache caches the latest decoded run history so that multiple
// dashboard instances can share one ingest.
type SnapshotCache interface {
	Set(ctx context.Context, history RunHistory) error
	Get(ctx context.Context) (RunHistory, error)
}

// SignalBus is a publish/subscribe channel between the ingest pipeline and
// the presentation layer (WebSocket hub). Payloads are raw JSON.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of payloads. The subscription ends and the
	// channel is closed when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RateLimiter bounds how often a keyed action may occur within a sliding
// window. Allow reports whether the action identified by key is still under
// limit occurrences per window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
