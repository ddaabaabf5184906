package workers

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"shopstream/contexts/shop/analytics-service/adapters/memory"
)

type stubMetrics struct {
	discards map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{discards: make(map[string]int)}
}

func (m *stubMetrics) Discarded(_ string, reason string) {
	m.discards[reason]++
}

func TestAnalyticsConsumerArchivesUnderTimeOrderedKey(t *testing.T) {
	store := memory.NewStore()
	consumer := AnalyticsEventConsumer{
		Store:         store,
		Clock:         store,
		ConsumerGroup: "analytics-test",
	}

	value := []byte(`{"event_type":"OrderCreated","order_id":"O1","quantity":2,"order_created_at":"2024-03-01T10:15:30.123456Z"}`)
	if err := consumer.HandleMessage(context.Background(), value); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	wantKey := "analytics:ordercreated:O1:20240301101530123456"
	stored, found, err := store.Get(context.Background(), wantKey)
	if err != nil || !found {
		t.Fatalf("expected key %q, have %v (err=%v)", wantKey, store.Keys(), err)
	}
	if !bytes.Equal(stored, value) {
		t.Fatalf("archive must store the raw event verbatim, got %s", stored)
	}
}

func TestAnalyticsConsumerFallsBackToClockWithoutTimestamp(t *testing.T) {
	store := memory.NewStore()
	store.SetNow(time.Date(2024, 3, 1, 12, 0, 0, 42000, time.UTC))
	consumer := AnalyticsEventConsumer{
		Store:         store,
		Clock:         store,
		ConsumerGroup: "analytics-test",
	}

	value := []byte(`{"event_type":"OrderCreated","order_id":"O2"}`)
	if err := consumer.HandleMessage(context.Background(), value); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	wantKey := "analytics:ordercreated:O2:20240301120000000042"
	if _, found, _ := store.Get(context.Background(), wantKey); !found {
		t.Fatalf("expected key %q, have %v", wantKey, store.Keys())
	}
}

func TestAnalyticsConsumerOverwriteIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	consumer := AnalyticsEventConsumer{
		Store:         store,
		Clock:         store,
		ConsumerGroup: "analytics-test",
	}

	value := []byte(`{"event_type":"OrderCreated","order_id":"O1","order_created_at":"2024-03-01T10:15:30Z"}`)
	for i := 0; i < 2; i++ {
		if err := consumer.HandleMessage(context.Background(), value); err != nil {
			t.Fatalf("redelivery %d failed: %v", i, err)
		}
	}
	if store.Len() != 1 {
		t.Fatalf("redelivery must overwrite the same key, got %d entries", store.Len())
	}
}

func TestAnalyticsConsumerDiscardsBadEvents(t *testing.T) {
	store := memory.NewStore()
	metrics := newStubMetrics()
	consumer := AnalyticsEventConsumer{
		Store:         store,
		Clock:         store,
		ConsumerGroup: "analytics-test",
		Metrics:       metrics,
	}

	if err := consumer.HandleMessage(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("malformed event must not fail the handler: %v", err)
	}
	if err := consumer.HandleMessage(context.Background(), []byte(`{"event_type":"OrderCreated"}`)); err != nil {
		t.Fatalf("incomplete event must not fail the handler: %v", err)
	}

	if metrics.discards["malformed"] != 1 || metrics.discards["missing_field"] != 1 {
		t.Fatalf("unexpected discard counts: %v", metrics.discards)
	}
	if store.Len() != 0 {
		t.Fatalf("discarded events must not be archived, got %d entries", store.Len())
	}
}

type failingStore struct{}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("store unavailable")
}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func TestAnalyticsConsumerSurfacesStoreFailure(t *testing.T) {
	clock := memory.NewStore()
	consumer := AnalyticsEventConsumer{
		Store:         failingStore{},
		Clock:         clock,
		ConsumerGroup: "analytics-test",
	}

	value := []byte(`{"event_type":"OrderCreated","order_id":"O1","order_created_at":"2024-03-01T10:15:30Z"}`)
	if err := consumer.HandleMessage(context.Background(), value); err == nil {
		t.Fatal("expected store failure to surface")
	}
}
