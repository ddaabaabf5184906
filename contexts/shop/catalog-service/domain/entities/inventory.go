package entities

import "time"

// DefaultLowStockThreshold is applied to every inventory row created
// alongside a product.
const DefaultLowStockThreshold = 10

// Inventory holds stock for exactly one product (unique product_id).
// Quantity is only ever mutated inside the transaction that writes the
// triggering entity, and may go negative under the legacy decrement policy.
type Inventory struct {
	ProductID         string
	Quantity          int
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
