package commands

import (
	"encoding/json"
	"time"
)

// Envelope is the wire shape shared by the command producer and every
// consumer. It is produced once and may be consumed more than once;
// CommandID exists for tracing only, not deduplication.
type Envelope struct {
	CommandID   string          `json:"command_id"`
	CommandType Type            `json:"command_type"`
	Timestamp   time.Time       `json:"timestamp"`
	Payload     json.RawMessage `json:"payload"`
}

// Type enumerates the closed set of command kinds carried on the command
// topics. Unknown values still decode (forward compatibility during
// rollout) and are rejected at the consumer, not at the codec.
type Type string

const (
	TypeCreateProduct Type = "CreateProductCommand"
	TypeDeleteProduct Type = "DeleteProductCommand"
	TypeCreateOrder   Type = "CreateOrderCommand"
	TypeUpdateOrder   Type = "UpdateOrderCommand"
	TypeDeleteOrder   Type = "DeleteOrderCommand"
)

// Command is the decoded, type-checked form of an envelope payload.
// Exactly one concrete variant exists per Type plus Unknown, so consumer
// dispatch is an exhaustive switch.
type Command interface {
	commandType() Type
}

// CreateProduct creates a Product row and its paired Inventory row.
type CreateProduct struct {
	ProductID            string    `json:"product_id"`
	Name                 string    `json:"name"`
	Price                int64     `json:"price"`
	Description          string    `json:"description"`
	ImageURL             string    `json:"image_url"`
	InitialStockQuantity int       `json:"initial_stock_quantity"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DeleteProduct removes a Product row and its Inventory row.
type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

// CreateOrder creates an Order row and decrements the product's inventory.
// TotalPrice arrives as a JSON number and is truncated to whole currency
// units when applied.
type CreateOrder struct {
	OrderID    string    `json:"order_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateOrder is accepted by the order consumer but has no implemented
// transition. Kept as a declared variant so adding behavior later is a
// compile-time-visible change.
type UpdateOrder struct {
	OrderID string `json:"order_id"`
}

// DeleteOrder is accepted by the order consumer but has no implemented
// transition; order rows are not reconciled against inventory.
type DeleteOrder struct {
	OrderID string `json:"order_id"`
}

// Unknown carries a command_type outside the closed enumeration. Consumers
// log and discard it.
type Unknown struct {
	Type Type
}

func (CreateProduct) commandType() Type { return TypeCreateProduct }
func (DeleteProduct) commandType() Type { return TypeDeleteProduct }
func (CreateOrder) commandType() Type   { return TypeCreateOrder }
func (UpdateOrder) commandType() Type   { return TypeUpdateOrder }
func (DeleteOrder) commandType() Type   { return TypeDeleteOrder }
func (Unknown) commandType() Type       { return "" }
