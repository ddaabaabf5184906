package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"shopstream/contexts/shop/ordering-service/application/commands"
	"shopstream/contexts/shop/ordering-service/application/queries"
	"shopstream/contexts/shop/ordering-service/domain/entities"
	httptransport "shopstream/contexts/shop/ordering-service/transport/http"
)

type Handler struct {
	CreateOrder commands.CreateOrderUseCase
	DeleteOrder commands.DeleteOrderUseCase
	GetOrder    queries.GetOrderUseCase
	ListOrders  queries.ListOrdersUseCase
	Logger      *slog.Logger
}

func (h Handler) CreateOrderHandler(
	ctx context.Context,
	req httptransport.CreateOrderRequest,
) (httptransport.CommandAcceptedResponse, error) {
	result, err := h.CreateOrder.Execute(ctx, commands.CreateOrderInput{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		return httptransport.CommandAcceptedResponse{}, err
	}
	return httptransport.CommandAcceptedResponse{
		Message:   "create order request received",
		CommandID: result.CommandID,
		OrderID:   result.OrderID,
	}, nil
}

func (h Handler) DeleteOrderHandler(ctx context.Context, orderID string) (httptransport.CommandAcceptedResponse, error) {
	result, err := h.DeleteOrder.Execute(ctx, commands.DeleteOrderInput{OrderID: orderID})
	if err != nil {
		return httptransport.CommandAcceptedResponse{}, err
	}
	return httptransport.CommandAcceptedResponse{
		Message:   "delete order request received",
		CommandID: result.CommandID,
		OrderID:   orderID,
	}, nil
}

func (h Handler) GetOrderHandler(ctx context.Context, orderID string) (httptransport.GetOrderResponse, error) {
	order, err := h.GetOrder.Execute(ctx, orderID)
	if err != nil {
		return httptransport.GetOrderResponse{}, err
	}
	return httptransport.GetOrderResponse{Order: mapOrder(order)}, nil
}

func (h Handler) ListOrdersHandler(ctx context.Context) (httptransport.ListOrdersResponse, error) {
	items, err := h.ListOrders.Execute(ctx)
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	result := make([]httptransport.OrderDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapOrder(item))
	}
	return httptransport.ListOrdersResponse{Items: result}, nil
}

func mapOrder(order entities.Order) httptransport.OrderDTO {
	return httptransport.OrderDTO{
		OrderID:    order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
