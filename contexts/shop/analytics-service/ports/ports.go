package ports

import (
	"context"
	"time"
)

// KeyValueStore is the analytics archive. Writes are last-write-wins; the
// key layout makes collisions effectively impossible, so an overwrite
// replays the identical event.
type KeyValueStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// ConsumerMetrics records messages the consumer dropped before archiving.
type ConsumerMetrics interface {
	Discarded(consumerGroup string, reason string)
}

// Clock allows deterministic testing of key timestamps.
type Clock interface {
	Now() time.Time
}
