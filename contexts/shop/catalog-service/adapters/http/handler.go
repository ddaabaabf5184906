package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"shopstream/contexts/shop/catalog-service/application/commands"
	"shopstream/contexts/shop/catalog-service/application/queries"
	"shopstream/contexts/shop/catalog-service/domain/entities"
	httptransport "shopstream/contexts/shop/catalog-service/transport/http"
)

type Handler struct {
	CreateProduct commands.CreateProductUseCase
	DeleteProduct commands.DeleteProductUseCase
	GetProduct    queries.GetProductUseCase
	ListProducts  queries.ListProductsUseCase
	Logger        *slog.Logger
}

// CreateProductHandler enqueues the creation command. The returned response
// acknowledges acceptance only; the product does not exist yet.
func (h Handler) CreateProductHandler(
	ctx context.Context,
	req httptransport.CreateProductRequest,
) (httptransport.CommandAcceptedResponse, error) {
	result, err := h.CreateProduct.Execute(ctx, commands.CreateProductInput{
		Name:          req.Name,
		Price:         req.Price,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		return httptransport.CommandAcceptedResponse{}, err
	}
	return httptransport.CommandAcceptedResponse{
		Message:   "create product request received",
		CommandID: result.CommandID,
		ProductID: result.ProductID,
	}, nil
}

func (h Handler) DeleteProductHandler(ctx context.Context, productID string) (httptransport.CommandAcceptedResponse, error) {
	result, err := h.DeleteProduct.Execute(ctx, productID)
	if err != nil {
		return httptransport.CommandAcceptedResponse{}, err
	}
	return httptransport.CommandAcceptedResponse{
		Message:   "delete product request received",
		CommandID: result.CommandID,
		ProductID: productID,
	}, nil
}

func (h Handler) GetProductHandler(ctx context.Context, productID string) (httptransport.GetProductResponse, error) {
	view, err := h.GetProduct.Execute(ctx, productID)
	if err != nil {
		return httptransport.GetProductResponse{}, err
	}
	resp := httptransport.GetProductResponse{Product: mapProduct(view.Product)}
	if view.Inventory != nil {
		resp.Inventory = &httptransport.InventoryDTO{
			Quantity:          view.Inventory.Quantity,
			LowStockThreshold: view.Inventory.LowStockThreshold,
			UpdatedAt:         view.Inventory.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (h Handler) ListProductsHandler(ctx context.Context) (httptransport.ListProductsResponse, error) {
	items, err := h.ListProducts.Execute(ctx)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	result := make([]httptransport.ProductDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapProduct(item))
	}
	return httptransport.ListProductsResponse{Items: result}, nil
}

func mapProduct(product entities.Product) httptransport.ProductDTO {
	return httptransport.ProductDTO{
		ProductID:   product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   product.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
