package messaging

import (
	"context"
	"time"
)

// Topic names owned by the pipeline. The event topics other than
// analytics_events are provisioned for downstream use but have no consumer
// here yet.
const (
	TopicProductCommands = "product_commands"
	TopicOrderCommands   = "order_commands"
	TopicProductEvents   = "product_events"
	TopicOrderEvents     = "order_events"
	TopicInventoryEvents = "inventory_events"
	TopicAnalyticsEvents = "analytics_events"
)

// AllTopics lists every topic provisioned at worker startup.
func AllTopics() []string {
	return []string{
		TopicProductCommands,
		TopicOrderCommands,
		TopicProductEvents,
		TopicOrderEvents,
		TopicInventoryEvents,
		TopicAnalyticsEvents,
	}
}

// Message is one delivered record. Key is the partition key (the mutated
// entity's id) chosen by the producer.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
}

// PollStatus classifies the outcome of one bounded poll.
type PollStatus int

const (
	// PollMessage delivers a record for dispatch.
	PollMessage PollStatus = iota
	// PollIdle is a timeout with nothing available; a scheduling idle
	// point, not an error.
	PollIdle
	// PollEndOfStream marks the end of the currently assigned data.
	PollEndOfStream
	// PollTransportError is an intermittent network fault; the client
	// retries internally.
	PollTransportError
	// PollBrokerError is any other broker-side failure.
	PollBrokerError
)

// Poll is the classified result of one poll attempt.
type Poll struct {
	Status  PollStatus
	Message Message
	Err     error
}

// Source is one worker's exclusive handle on a durable subscription.
// Handles must not be shared across workers.
type Source interface {
	// Poll waits up to timeout for the next record and classifies the
	// outcome. ctx cancellation makes subsequent polls return idle so the
	// consumption loop can observe its stop signal.
	Poll(ctx context.Context, timeout time.Duration) Poll
	// Commit marks the most recently polled record as processed. Under the
	// pipeline's auto-commit policy this is called whether or not the
	// handler succeeded.
	Commit(ctx context.Context) error
	Close() error
}
