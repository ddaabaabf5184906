package queries

import (
	"context"
	"log/slog"

	"shopstream/contexts/shop/ordering-service/domain/entities"
	"shopstream/contexts/shop/ordering-service/ports"
)

type GetOrderUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (u GetOrderUseCase) Execute(ctx context.Context, orderID string) (entities.Order, error) {
	return u.Orders.GetOrder(ctx, orderID)
}
