package messaging

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedSource struct {
	polls   []Poll
	index   int
	commits int
	closed  bool
	cancel  context.CancelFunc
}

func (s *scriptedSource) Poll(_ context.Context, _ time.Duration) Poll {
	if s.index >= len(s.polls) {
		// Script exhausted; stop the loop.
		s.cancel()
		return Poll{Status: PollIdle}
	}
	poll := s.polls[s.index]
	s.index++
	return poll
}

func (s *scriptedSource) Commit(context.Context) error {
	s.commits++
	return nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

func TestConsumerLoopDispatchesEveryMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &scriptedSource{
		cancel: cancel,
		polls: []Poll{
			{Status: PollMessage, Message: Message{Topic: "t", Value: []byte("a")}},
			{Status: PollIdle},
			{Status: PollMessage, Message: Message{Topic: "t", Value: []byte("b")}},
		},
	}

	var handled []string
	loop := ConsumerLoop{
		Source: source,
		Handler: func(_ context.Context, msg Message) error {
			handled = append(handled, string(msg.Value))
			return nil
		},
		Group:       "loop-test",
		PollTimeout: 10 * time.Millisecond,
	}

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(handled) != 2 || handled[0] != "a" || handled[1] != "b" {
		t.Fatalf("unexpected dispatches: %v", handled)
	}
	if source.commits != 2 {
		t.Fatalf("expected 2 commits, got %d", source.commits)
	}
	if !source.closed {
		t.Fatal("expected subscription to be released")
	}
}

func TestConsumerLoopCommitsAfterHandlerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &scriptedSource{
		cancel: cancel,
		polls: []Poll{
			{Status: PollMessage, Message: Message{Topic: "t", Value: []byte("poison")}},
		},
	}

	loop := ConsumerLoop{
		Source: source,
		Handler: func(context.Context, Message) error {
			return errors.New("handler blew up")
		},
		Group:       "loop-test",
		PollTimeout: 10 * time.Millisecond,
	}

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("handler errors must not stop the loop: %v", err)
	}
	// Offset advances even for a failed message; that is the auto-commit
	// contract.
	if source.commits != 1 {
		t.Fatalf("expected the failed message to be committed, got %d commits", source.commits)
	}
}

func TestConsumerLoopToleratesBrokerErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &scriptedSource{
		cancel: cancel,
		polls: []Poll{
			{Status: PollTransportError, Err: errors.New("connection reset")},
			{Status: PollBrokerError, Err: errors.New("not coordinator")},
			{Status: PollEndOfStream, Err: errors.New("EOF")},
			{Status: PollMessage, Message: Message{Topic: "t", Value: []byte("after errors")}},
		},
	}

	var handled int
	loop := ConsumerLoop{
		Source: source,
		Handler: func(context.Context, Message) error {
			handled++
			return nil
		},
		Group:       "loop-test",
		PollTimeout: 10 * time.Millisecond,
	}

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if handled != 1 {
		t.Fatalf("expected consumption to continue past errors, handled %d", handled)
	}
}

func TestBusFansOutPerGroup(t *testing.T) {
	bus := NewBus(nil)
	first := bus.NewSource("analytics_events", "group-a")
	second := bus.NewSource("analytics_events", "group-b")
	defer first.Close()
	defer second.Close()

	if err := bus.Publish(context.Background(), "analytics_events", "O1", []byte("event")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	for name, source := range map[string]Source{"group-a": first, "group-b": second} {
		poll := source.Poll(context.Background(), 100*time.Millisecond)
		if poll.Status != PollMessage {
			t.Fatalf("%s: expected a message, got status %v", name, poll.Status)
		}
		if string(poll.Message.Value) != "event" {
			t.Fatalf("%s: unexpected value %s", name, poll.Message.Value)
		}
	}
}

func TestBusPollTimesOutIdle(t *testing.T) {
	bus := NewBus(nil)
	source := bus.NewSource("order_commands", "group-a")
	defer source.Close()

	poll := source.Poll(context.Background(), 10*time.Millisecond)
	if poll.Status != PollIdle {
		t.Fatalf("expected idle poll, got %v", poll.Status)
	}
}
