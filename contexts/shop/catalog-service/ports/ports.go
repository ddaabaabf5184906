package ports

import (
	"context"
	"time"

	"shopstream/contexts/shop/catalog-service/domain/entities"
)

// ProductRepository owns product/inventory persistence and the transaction
// boundary that keeps the two writes atomic.
type ProductRepository interface {
	// CreateProductWithInventory must commit both rows together or neither.
	CreateProductWithInventory(ctx context.Context, product entities.Product, inventory entities.Inventory) error
	// DeleteProductWithInventory removes both rows in one transaction. It
	// does not check for outstanding orders referencing the product; that
	// gap is preserved deliberately.
	DeleteProductWithInventory(ctx context.Context, productID string) error
	GetProduct(ctx context.Context, productID string) (entities.Product, error)
	ListProducts(ctx context.Context) ([]entities.Product, error)
	GetInventory(ctx context.Context, productID string) (entities.Inventory, bool, error)
}

// CommandPublisher enqueues an encoded command envelope keyed by the
// mutated entity's id. A nil return means the client accepted the record;
// it is not an acknowledgment that the broker persisted it.
type CommandPublisher interface {
	Publish(ctx context.Context, topic string, key string, value []byte) error
}

// ConsumerMetrics records messages the consumer dropped before applying.
type ConsumerMetrics interface {
	Discarded(consumerGroup string, reason string)
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts product/command identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
