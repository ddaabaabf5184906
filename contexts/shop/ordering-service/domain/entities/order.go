package entities

import "time"

// Order references a product that must exist at creation time. TotalPrice
// is stored in whole currency units, truncated from the command payload.
type Order struct {
	ID         string
	ProductID  string
	Quantity   int
	TotalPrice int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
