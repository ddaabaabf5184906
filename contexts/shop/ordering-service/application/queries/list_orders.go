package queries

import (
	"context"
	"log/slog"

	"shopstream/contexts/shop/ordering-service/domain/entities"
	"shopstream/contexts/shop/ordering-service/ports"
)

type ListOrdersUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (u ListOrdersUseCase) Execute(ctx context.Context) ([]entities.Order, error) {
	return u.Orders.ListOrders(ctx)
}
