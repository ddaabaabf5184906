package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CommandAcceptedResponse is returned by every mutating endpoint. The write
// has not happened yet: the command was enqueued and a consumer applies it
// later, so the only honest status is acceptance.
type CommandAcceptedResponse struct {
	Message   string `json:"message"`
	CommandID string `json:"command_id"`
	ProductID string `json:"product_id,omitempty"`
}

type CreateProductRequest struct {
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url,omitempty"`
	StockQuantity int    `json:"stock_quantity,omitempty"`
}

type ProductDTO struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type InventoryDTO struct {
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	UpdatedAt         string `json:"updated_at"`
}

type GetProductResponse struct {
	Product   ProductDTO    `json:"product"`
	Inventory *InventoryDTO `json:"inventory,omitempty"`
}

type ListProductsResponse struct {
	Items []ProductDTO `json:"items"`
}
