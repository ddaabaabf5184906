package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CommandAcceptedResponse is returned by every mutating endpoint. The order
// materializes asynchronously when the consumer applies the command.
type CommandAcceptedResponse struct {
	Message   string `json:"message"`
	CommandID string `json:"command_id"`
	OrderID   string `json:"order_id,omitempty"`
}

type CreateOrderRequest struct {
	ProductID  string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type OrderDTO struct {
	OrderID    string `json:"order_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	TotalPrice int64  `json:"total_price"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type GetOrderResponse struct {
	Order OrderDTO `json:"order"`
}

type ListOrdersResponse struct {
	Items []OrderDTO `json:"items"`
}
