package ports

import (
	"context"
	"time"

	"shopstream/contexts/shop/ordering-service/domain/entities"
)

// InventoryPolicy controls the floor behavior of the stock decrement. The
// legacy pipeline allows quantity to go negative; setting
// AllowNegativeStock false makes an over-selling order fail its
// transaction instead.
type InventoryPolicy struct {
	AllowNegativeStock bool
}

// OrderWriteResult reports what the creation transaction touched.
type OrderWriteResult struct {
	InventoryAdjusted bool
	RemainingStock    int
}

// OrderRepository owns order persistence and the transaction boundary that
// keeps the order insert and the inventory decrement atomic.
type OrderRepository interface {
	// CreateOrderAdjustingInventory inserts the order and, when an
	// inventory row for the product exists, decrements its quantity by the
	// order quantity and refreshes its updated_at. A missing inventory row
	// is not an error: the order is still inserted with no adjustment.
	CreateOrderAdjustingInventory(
		ctx context.Context,
		order entities.Order,
		inventoryUpdatedAt time.Time,
		policy InventoryPolicy,
	) (OrderWriteResult, error)
	GetOrder(ctx context.Context, orderID string) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
}

// ProductSnapshot is the denormalized product copy embedded in analytics
// events at emission time.
type ProductSnapshot struct {
	ProductID   string
	Name        string
	Price       int64
	Description string
	ImageURL    string
}

// ProductReader resolves the product referenced by an order. It is
// read-only: product rows are owned by the catalog consumer.
type ProductReader interface {
	GetProductSnapshot(ctx context.Context, productID string) (ProductSnapshot, bool, error)
}

// CommandPublisher enqueues an encoded command envelope keyed by the
// partition key chosen by the producer.
type CommandPublisher interface {
	Publish(ctx context.Context, topic string, key string, value []byte) error
}

// EventPublisher publishes derived events after the primary transaction
// commits. Failures are absorbed as partial success.
type EventPublisher interface {
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

// IDGenerator abstracts order/command identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
