package workers

import (
	"context"
	"testing"
	"time"

	"shopstream/contexts/shop/catalog-service/adapters/memory"
	"shopstream/contexts/shop/catalog-service/domain/entities"
	sharedcommands "shopstream/internal/shared/commands"
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

func encodeCommand(t *testing.T, cmd sharedcommands.Command, at time.Time) []byte {
	t.Helper()
	envelope, err := sharedcommands.NewEnvelope(cmd, at)
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	data, err := sharedcommands.Encode(envelope)
	if err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
	return data
}

func TestProductConsumerCreateAppliesProductAndInventory(t *testing.T) {
	store := memory.NewStore(nil)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(now)

	consumer := ProductCommandConsumer{
		Repository:    store,
		Clock:         store,
		ConsumerGroup: "catalog-test",
		Metrics:       newStubMetrics(),
	}

	value := encodeCommand(t, sharedcommands.CreateProduct{
		ProductID:            "P1",
		Name:                 "Mechanical Keyboard",
		Price:                12900,
		Description:          "Tenkeyless board with hot-swap switches.",
		InitialStockQuantity: 5,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, now)

	if err := consumer.HandleMessage(context.Background(), value); err != nil {
		t.Fatalf("handle create failed: %v", err)
	}

	product, err := store.GetProduct(context.Background(), "P1")
	if err != nil {
		t.Fatalf("product not created: %v", err)
	}
	if product.Name != "Mechanical Keyboard" || product.Price != 12900 {
		t.Fatalf("unexpected product: %+v", product)
	}

	inventory, found, err := store.GetInventory(context.Background(), "P1")
	if err != nil || !found {
		t.Fatalf("inventory not created: found=%v err=%v", found, err)
	}
	if inventory.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", inventory.Quantity)
	}
	if inventory.LowStockThreshold != entities.DefaultLowStockThreshold {
		t.Fatalf("expected default threshold, got %d", inventory.LowStockThreshold)
	}
}

func TestProductConsumerDeleteRemovesProductAndInventory(t *testing.T) {
	store := memory.NewStore(nil)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(now)

	consumer := ProductCommandConsumer{
		Repository:    store,
		Clock:         store,
		ConsumerGroup: "catalog-test",
	}

	create := encodeCommand(t, sharedcommands.CreateProduct{
		ProductID:            "P1",
		Name:                 "Mechanical Keyboard",
		Price:                12900,
		Description:          "Tenkeyless board with hot-swap switches.",
		InitialStockQuantity: 5,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, now)
	if err := consumer.HandleMessage(context.Background(), create); err != nil {
		t.Fatalf("handle create failed: %v", err)
	}

	del := encodeCommand(t, sharedcommands.DeleteProduct{ProductID: "P1"}, now)
	if err := consumer.HandleMessage(context.Background(), del); err != nil {
		t.Fatalf("handle delete failed: %v", err)
	}

	if _, err := store.GetProduct(context.Background(), "P1"); err == nil {
		t.Fatal("expected product to be deleted")
	}
	if _, found, _ := store.GetInventory(context.Background(), "P1"); found {
		t.Fatal("expected inventory to be deleted")
	}
}

func TestProductConsumerDeleteMissingRowIsDiscarded(t *testing.T) {
	store := memory.NewStore(nil)
	metrics := newStubMetrics()
	consumer := ProductCommandConsumer{
		Repository:    store,
		Clock:         store,
		ConsumerGroup: "catalog-test",
		Metrics:       metrics,
	}

	del := encodeCommand(t, sharedcommands.DeleteProduct{ProductID: "ghost"}, time.Now())
	if err := consumer.HandleMessage(context.Background(), del); err != nil {
		t.Fatalf("missing row must not fail the handler: %v", err)
	}
	if metrics.discards["missing_row"] != 1 {
		t.Fatalf("expected missing_row discard, got %v", metrics.discards)
	}
}

func TestProductConsumerMalformedMessageIsDiscarded(t *testing.T) {
	store := memory.NewStore(nil)
	metrics := newStubMetrics()
	consumer := ProductCommandConsumer{
		Repository:    store,
		Clock:         store,
		ConsumerGroup: "catalog-test",
		Metrics:       metrics,
	}

	if err := consumer.HandleMessage(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("malformed message must not fail the handler: %v", err)
	}
	if metrics.discards["malformed"] != 1 {
		t.Fatalf("expected malformed discard, got %v", metrics.discards)
	}
}

func TestProductConsumerRejectsOrderCommands(t *testing.T) {
	store := memory.NewStore(nil)
	metrics := newStubMetrics()
	consumer := ProductCommandConsumer{
		Repository:    store,
		Clock:         store,
		ConsumerGroup: "catalog-test",
		Metrics:       metrics,
	}

	now := time.Now().UTC()
	value := encodeCommand(t, sharedcommands.CreateOrder{
		OrderID:    "O1",
		ProductID:  "P1",
		Quantity:   1,
		TotalPrice: 10,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, now)

	if err := consumer.HandleMessage(context.Background(), value); err != nil {
		t.Fatalf("unexpected command type must not fail the handler: %v", err)
	}
	if metrics.discards["unexpected_command_type"] != 1 {
		t.Fatalf("expected unexpected_command_type discard, got %v", metrics.discards)
	}
}

func TestProductConsumerDuplicateCreateReturnsError(t *testing.T) {
	store := memory.NewStore(nil)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(now)
	consumer := ProductCommandConsumer{
		Repository:    store,
		Clock:         store,
		ConsumerGroup: "catalog-test",
	}

	value := encodeCommand(t, sharedcommands.CreateProduct{
		ProductID:            "P1",
		Name:                 "Mechanical Keyboard",
		Price:                12900,
		Description:          "Tenkeyless board with hot-swap switches.",
		InitialStockQuantity: 5,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, now)

	if err := consumer.HandleMessage(context.Background(), value); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if err := consumer.HandleMessage(context.Background(), value); err == nil {
		t.Fatal("expected duplicate create to surface a store error")
	}
}
