package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Bus is an in-process broker stand-in with consumer-group semantics: each
// group receives one copy of every record published to a topic it
// subscribes to. It backs local development and tests; the Kafka adapter is
// the production transport.
type Bus struct {
	mu      sync.Mutex
	groups  map[string]map[string]chan Message
	offsets map[string]int64
	logger  *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		groups:  make(map[string]map[string]chan Message),
		offsets: make(map[string]int64),
		logger:  logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	offset := b.offsets[topic]
	b.offsets[topic] = offset + 1
	subscribers := make([]chan Message, 0, len(b.groups[topic]))
	for _, ch := range b.groups[topic] {
		subscribers = append(subscribers, ch)
	}
	b.mu.Unlock()

	msg := Message{
		Topic:  topic,
		Offset: offset,
		Key:    []byte(key),
		Value:  value,
	}
	for _, ch := range subscribers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- msg:
		default:
			b.logger.Warn("dropping message for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"key", key,
			)
		}
	}
	return nil
}

// NewSource registers a group subscription on a topic. Closing the source
// removes the subscription.
func (b *Bus) NewSource(topic string, groupID string) Source {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.groups[topic] == nil {
		b.groups[topic] = make(map[string]chan Message)
	}
	ch, ok := b.groups[topic][groupID]
	if !ok {
		ch = make(chan Message, 128)
		b.groups[topic][groupID] = ch
	}
	return &busSource{bus: b, topic: topic, group: groupID, ch: ch}
}

type busSource struct {
	bus   *Bus
	topic string
	group string
	ch    chan Message
}

func (s *busSource) Poll(ctx context.Context, timeout time.Duration) Poll {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Poll{Status: PollIdle, Err: ctx.Err()}
	case <-timer.C:
		return Poll{Status: PollIdle}
	case msg := <-s.ch:
		return Poll{Status: PollMessage, Message: msg}
	}
}

func (s *busSource) Commit(context.Context) error {
	// Delivery is removal from the channel; there is no offset store.
	return nil
}

func (s *busSource) Close() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if subs, ok := s.bus.groups[s.topic]; ok {
		if subs[s.group] == s.ch {
			delete(subs, s.group)
		}
	}
	return nil
}
