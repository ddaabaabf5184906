package errors

import "errors"

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrDuplicateProduct      = errors.New("product already exists")
	ErrInvalidProductRequest = errors.New("invalid product request")
	ErrPublisherUnavailable  = errors.New("command publisher unavailable")
)
