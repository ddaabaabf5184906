package queries

import (
	"context"
	"log/slog"

	"shopstream/contexts/shop/catalog-service/domain/entities"
	"shopstream/contexts/shop/catalog-service/ports"
)

type ListProductsUseCase struct {
	Products ports.ProductRepository
	Logger   *slog.Logger
}

func (u ListProductsUseCase) Execute(ctx context.Context) ([]entities.Product, error) {
	return u.Products.ListProducts(ctx)
}
