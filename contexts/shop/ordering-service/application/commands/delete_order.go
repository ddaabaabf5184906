package commands

import (
	"context"
	"log/slog"

	application "shopstream/contexts/shop/ordering-service/application"
	domainerrors "shopstream/contexts/shop/ordering-service/domain/errors"
	"shopstream/contexts/shop/ordering-service/ports"
	sharedcommands "shopstream/internal/shared/commands"
)

type DeleteOrderInput struct {
	OrderID string
}

type DeleteOrderResult struct {
	CommandID string
}

// DeleteOrderUseCase publishes a DeleteOrderCommand. The consumer treats
// deletion as accepted but not applied, so this exists to keep the command
// surface symmetric with products.
type DeleteOrderUseCase struct {
	Orders    ports.OrderRepository
	Publisher ports.CommandPublisher
	Topic     string
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u DeleteOrderUseCase) Execute(ctx context.Context, input DeleteOrderInput) (DeleteOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if u.Publisher == nil {
		return DeleteOrderResult{}, domainerrors.ErrPublisherUnavailable
	}
	if input.OrderID == "" {
		return DeleteOrderResult{}, domainerrors.ErrInvalidOrderRequest
	}

	if _, err := u.Orders.GetOrder(ctx, input.OrderID); err != nil {
		return DeleteOrderResult{}, err
	}

	now := u.Clock.Now().UTC()
	envelope, err := sharedcommands.NewEnvelope(sharedcommands.DeleteOrder{OrderID: input.OrderID}, now)
	if err != nil {
		return DeleteOrderResult{}, err
	}
	value, err := sharedcommands.Encode(envelope)
	if err != nil {
		return DeleteOrderResult{}, err
	}

	if err := u.Publisher.Publish(ctx, u.Topic, input.OrderID, value); err != nil {
		return DeleteOrderResult{}, err
	}

	logger.Info("delete order command published",
		"event", "ordering_delete_order_published",
		"module", "shop/ordering-service",
		"layer", "application",
		"order_id", input.OrderID,
		"command_id", envelope.CommandID,
	)
	return DeleteOrderResult{CommandID: envelope.CommandID}, nil
}
