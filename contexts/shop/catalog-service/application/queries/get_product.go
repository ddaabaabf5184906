package queries

import (
	"context"
	"log/slog"

	"shopstream/contexts/shop/catalog-service/domain/entities"
	"shopstream/contexts/shop/catalog-service/ports"
)

type GetProductUseCase struct {
	Products ports.ProductRepository
	Logger   *slog.Logger
}

type ProductView struct {
	Product   entities.Product
	Inventory *entities.Inventory
}

// Execute loads a product and, when present, its inventory row.
func (u GetProductUseCase) Execute(ctx context.Context, productID string) (ProductView, error) {
	product, err := u.Products.GetProduct(ctx, productID)
	if err != nil {
		return ProductView{}, err
	}
	view := ProductView{Product: product}
	inventory, found, err := u.Products.GetInventory(ctx, productID)
	if err != nil {
		return ProductView{}, err
	}
	if found {
		view.Inventory = &inventory
	}
	return view, nil
}
