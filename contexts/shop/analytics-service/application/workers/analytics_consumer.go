package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "shopstream/contexts/shop/analytics-service/application"
	"shopstream/contexts/shop/analytics-service/ports"
)

const (
	discardMalformed    = "malformed"
	discardMissingField = "missing_field"
)

// keyTimeLayout renders the event time to second precision; the trailing
// microseconds are appended separately because the archive key needs a
// fixed-width, lexically sortable timestamp.
const keyTimeLayout = "20060102150405"

// AnalyticsEventConsumer archives every analytics event verbatim. It is
// intentionally schema-light: beyond the two fields needed to build the
// key, the event body is opaque, so producers can evolve the payload
// without touching this consumer.
type AnalyticsEventConsumer struct {
	Store         ports.KeyValueStore
	Clock         ports.Clock
	ConsumerGroup string
	Metrics       ports.ConsumerMetrics
	Logger        *slog.Logger
}

// HandleMessage archives one event. A non-nil return marks a store write
// failure; under auto-commit offsets the event is effectively dropped.
func (c AnalyticsEventConsumer) HandleMessage(ctx context.Context, value []byte) error {
	logger := application.ResolveLogger(c.Logger)

	var fields struct {
		EventType      string `json:"event_type"`
		OrderID        string `json:"order_id"`
		OrderCreatedAt string `json:"order_created_at"`
	}
	if err := json.Unmarshal(value, &fields); err != nil {
		c.discard(logger, discardMalformed, err.Error())
		return nil
	}
	if fields.EventType == "" || fields.OrderID == "" {
		c.discard(logger, discardMissingField, "event_type and order_id are required")
		return nil
	}

	eventTime := c.Clock.Now().UTC()
	if fields.OrderCreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, fields.OrderCreatedAt); err == nil {
			eventTime = parsed.UTC()
		}
	}

	key := ArchiveKey(fields.EventType, fields.OrderID, eventTime)
	if err := c.Store.Set(ctx, key, value); err != nil {
		logger.Error("analytics event archive failed",
			"event", "analytics_archive_failed",
			"module", "shop/analytics-service",
			"layer", "worker",
			"key", key,
			"order_id", fields.OrderID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("analytics event archived",
		"event", "analytics_archived",
		"module", "shop/analytics-service",
		"layer", "worker",
		"key", key,
		"order_id", fields.OrderID,
		"event_type", fields.EventType,
	)
	return nil
}

// ArchiveKey builds the storage key:
//
//	analytics:<event_type_lower>:<order_id>:<yyyymmddhhmmss><microseconds>
func ArchiveKey(eventType string, orderID string, eventTime time.Time) string {
	eventTime = eventTime.UTC()
	return fmt.Sprintf("analytics:%s:%s:%s%06d",
		strings.ToLower(eventType),
		orderID,
		eventTime.Format(keyTimeLayout),
		eventTime.Nanosecond()/1000,
	)
}

func (c AnalyticsEventConsumer) discard(logger *slog.Logger, reason string, detail string) {
	if c.Metrics != nil {
		c.Metrics.Discarded(c.ConsumerGroup, reason)
	}
	logger.Warn("analytics event discarded",
		"event", "analytics_event_discarded",
		"module", "shop/analytics-service",
		"layer", "worker",
		"consumer_group", c.ConsumerGroup,
		"reason", reason,
		"detail", detail,
	)
}
