package entities

import "time"

// Product is catalog state owned by the relational store. Price is an
// integer amount in the smallest currency unit.
type Product struct {
	ID          string
	Name        string
	Price       int64
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
