package errors

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrder       = errors.New("order already exists")
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidOrderRequest  = errors.New("invalid order request")
	ErrInsufficientStock    = errors.New("insufficient stock for order")
	ErrPublisherUnavailable = errors.New("command publisher unavailable")
)
