package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopstream/contexts/shop/catalog-service/adapters/memory"
	domainerrors "shopstream/contexts/shop/catalog-service/domain/errors"
	sharedcommands "shopstream/internal/shared/commands"
)

type capturingPublisher struct {
	topic string
	key   string
	value []byte
	calls int
	err   error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, key string, value []byte) error {
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.topic = topic
	p.key = key
	p.value = value
	return nil
}

func TestCreateProductPublishesEnvelope(t *testing.T) {
	store := memory.NewStore(nil)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(now)
	publisher := &capturingPublisher{}

	useCase := CreateProductUseCase{
		Publisher:   publisher,
		Topic:       "product_commands",
		Clock:       store,
		IDGenerator: store,
	}

	result, err := useCase.Execute(context.Background(), CreateProductInput{
		Name:          "Mechanical Keyboard",
		Price:         12900,
		Description:   "Tenkeyless board with hot-swap switches.",
		StockQuantity: 5,
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result.ProductID == "" || result.CommandID == "" {
		t.Fatalf("expected generated ids, got %+v", result)
	}
	if publisher.topic != "product_commands" {
		t.Fatalf("expected product_commands topic, got %s", publisher.topic)
	}
	if publisher.key != result.ProductID {
		t.Fatalf("expected partition key %s, got %s", result.ProductID, publisher.key)
	}

	envelope, cmd, err := sharedcommands.Decode(publisher.value)
	if err != nil {
		t.Fatalf("published value does not decode: %v", err)
	}
	if envelope.CommandType != sharedcommands.TypeCreateProduct {
		t.Fatalf("unexpected command type %s", envelope.CommandType)
	}
	create, ok := cmd.(sharedcommands.CreateProduct)
	if !ok {
		t.Fatalf("unexpected command variant %T", cmd)
	}
	if create.ProductID != result.ProductID || create.InitialStockQuantity != 5 {
		t.Fatalf("unexpected payload: %+v", create)
	}
	if !create.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, create.CreatedAt)
	}
}

func TestCreateProductValidationRejectsBadInput(t *testing.T) {
	store := memory.NewStore(nil)
	publisher := &capturingPublisher{}
	useCase := CreateProductUseCase{
		Publisher:   publisher,
		Topic:       "product_commands",
		Clock:       store,
		IDGenerator: store,
	}

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{Price: 100, Description: "long enough description"}},
		{"zero price", CreateProductInput{Name: "Item", Description: "long enough description"}},
		{"price above cap", CreateProductInput{Name: "Item", Price: 1000001, Description: "long enough description"}},
		{"short description", CreateProductInput{Name: "Item", Price: 100, Description: "too short"}},
		{"negative stock", CreateProductInput{Name: "Item", Price: 100, Description: "long enough description", StockQuantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := useCase.Execute(context.Background(), tc.input)
			if !errors.Is(err, domainerrors.ErrInvalidProductRequest) {
				t.Fatalf("expected invalid request error, got %v", err)
			}
		})
	}
	if publisher.calls != 0 {
		t.Fatalf("rejected input must not publish, got %d calls", publisher.calls)
	}
}

func TestCreateProductPublishFailureSurfaces(t *testing.T) {
	store := memory.NewStore(nil)
	publisher := &capturingPublisher{err: errors.New("broker down")}
	useCase := CreateProductUseCase{
		Publisher:   publisher,
		Topic:       "product_commands",
		Clock:       store,
		IDGenerator: store,
	}

	_, err := useCase.Execute(context.Background(), CreateProductInput{
		Name:        "Item",
		Price:       100,
		Description: "long enough description",
	})
	if err == nil {
		t.Fatal("expected publish failure to surface")
	}
}

func TestDeleteProductRequiresExistingProduct(t *testing.T) {
	store := memory.NewStore(nil)
	publisher := &capturingPublisher{}
	useCase := DeleteProductUseCase{
		Products:  store,
		Publisher: publisher,
		Topic:     "product_commands",
		Clock:     store,
	}

	_, err := useCase.Execute(context.Background(), "ghost")
	if !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if publisher.calls != 0 {
		t.Fatalf("missing product must not publish, got %d calls", publisher.calls)
	}
}
