package messaging

import (
	"context"
	"log/slog"
	"time"

	"shopstream/internal/platform/metrics"
)

// Handler processes one delivered record. Errors are logged and swallowed
// by the loop; a bad message must never halt consumption.
type Handler func(ctx context.Context, msg Message) error

// ConsumerLoop is the shared poll/dispatch primitive used by every
// consumer. Within one loop, handling is strictly sequential: the next
// record is not polled until the handler for the current one returns.
type ConsumerLoop struct {
	Source      Source
	Handler     Handler
	Group       string
	PollTimeout time.Duration
	Metrics     *metrics.Consumer
	Logger      *slog.Logger
}

// Run polls until ctx is cancelled. The subscription is released on every
// exit path. Offsets are committed regardless of handler outcome, so a
// failed command is not redelivered — a documented consistency weakness of
// the auto-commit policy, not an accident.
func (l ConsumerLoop) Run(ctx context.Context) error {
	logger := l.logger()
	timeout := l.PollTimeout
	if timeout <= 0 {
		timeout = time.Second
	}

	defer func() {
		if err := l.Source.Close(); err != nil {
			logger.Error("consumer subscription close failed",
				"event", "consumer_close_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"consumer_group", l.Group,
				"error", err.Error(),
			)
			return
		}
		logger.Info("consumer subscription released",
			"event", "consumer_closed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"consumer_group", l.Group,
		)
	}()

	logger.Info("consumption loop started",
		"event", "consumer_loop_started",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"consumer_group", l.Group,
		"poll_timeout", timeout.String(),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		poll := l.Source.Poll(ctx, timeout)
		switch poll.Status {
		case PollIdle:
			continue
		case PollEndOfStream:
			logger.Debug("reached end of assigned data",
				"event", "consumer_end_of_stream",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"consumer_group", l.Group,
			)
		case PollTransportError:
			logger.Warn("consumer transport error, client will recover",
				"event", "consumer_transport_error",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"consumer_group", l.Group,
				"error", poll.Err.Error(),
			)
		case PollBrokerError:
			logger.Error("consumer broker error",
				"event", "consumer_broker_error",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"consumer_group", l.Group,
				"error", poll.Err.Error(),
			)
		case PollMessage:
			l.dispatch(ctx, poll.Message)
		}
	}
}

func (l ConsumerLoop) dispatch(ctx context.Context, msg Message) {
	logger := l.logger()
	if err := l.Handler(ctx, msg); err != nil {
		if l.Metrics != nil {
			l.Metrics.HandlerFailed(l.Group)
		}
		logger.Error("message handler failed",
			"event", "consumer_handler_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"consumer_group", l.Group,
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err.Error(),
		)
	} else if l.Metrics != nil {
		l.Metrics.Processed(l.Group)
	}

	// Offset advances even when the handler failed; see Run.
	if err := l.Source.Commit(ctx); err != nil {
		logger.Error("offset commit failed",
			"event", "consumer_commit_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"consumer_group", l.Group,
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err.Error(),
		)
	}
}

func (l ConsumerLoop) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}
