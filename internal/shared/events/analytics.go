package events

import "time"

// EventTypeOrderCreated is the only analytics event type emitted by the
// current pipeline.
const EventTypeOrderCreated = "OrderCreated"

// ProductDetails is the denormalized product snapshot captured at emission
// time. It carries no foreign-key relationship to the live Product row.
type ProductDetails struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// OrderCreated is the analytics event published once per successful order
// creation. It is append-only downstream: written once, never updated.
type OrderCreated struct {
	EventType      string         `json:"event_type"`
	OrderID        string         `json:"order_id"`
	Quantity       int            `json:"quantity"`
	TotalPrice     int64          `json:"total_price"`
	OrderCreatedAt time.Time      `json:"order_created_at"`
	ProductDetails ProductDetails `json:"product_details"`
}
