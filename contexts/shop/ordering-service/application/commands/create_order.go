package commands

import (
	"context"
	"fmt"
	"log/slog"

	application "shopstream/contexts/shop/ordering-service/application"
	domainerrors "shopstream/contexts/shop/ordering-service/domain/errors"
	"shopstream/contexts/shop/ordering-service/ports"
	sharedcommands "shopstream/internal/shared/commands"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateOrderInput is the validated user intent behind a
// CreateOrderCommand.
type CreateOrderInput struct {
	ProductID  string  `validate:"required,min=1"`
	Quantity   int     `validate:"required,gt=0,lte=1000"`
	TotalPrice float64 `validate:"required,gt=0"`
}

type CreateOrderResult struct {
	OrderID   string
	CommandID string
}

// CreateOrderUseCase publishes a CreateOrderCommand keyed by the product
// id: inventory adjustment mutates the product's stock row, so all orders
// for one product must land in one partition to keep a single writer on
// that row.
type CreateOrderUseCase struct {
	Products    ports.ProductReader
	Publisher   ports.CommandPublisher
	Topic       string
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (CreateOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if u.Publisher == nil {
		return CreateOrderResult{}, domainerrors.ErrPublisherUnavailable
	}
	if err := validate.Struct(input); err != nil {
		return CreateOrderResult{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidOrderRequest, err)
	}

	_, found, err := u.Products.GetProductSnapshot(ctx, input.ProductID)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if !found {
		return CreateOrderResult{}, domainerrors.ErrProductNotFound
	}

	orderID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateOrderResult{}, err
	}
	now := u.Clock.Now().UTC()

	envelope, err := sharedcommands.NewEnvelope(sharedcommands.CreateOrder{
		OrderID:    orderID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		TotalPrice: input.TotalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, now)
	if err != nil {
		return CreateOrderResult{}, err
	}
	value, err := sharedcommands.Encode(envelope)
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err := u.Publisher.Publish(ctx, u.Topic, input.ProductID, value); err != nil {
		logger.Error("create order command publish failed",
			"event", "ordering_create_order_publish_failed",
			"module", "shop/ordering-service",
			"layer", "application",
			"order_id", orderID,
			"product_id", input.ProductID,
			"command_id", envelope.CommandID,
			"error", err.Error(),
		)
		return CreateOrderResult{}, err
	}

	logger.Info("create order command published",
		"event", "ordering_create_order_published",
		"module", "shop/ordering-service",
		"layer", "application",
		"order_id", orderID,
		"product_id", input.ProductID,
		"command_id", envelope.CommandID,
	)
	return CreateOrderResult{OrderID: orderID, CommandID: envelope.CommandID}, nil
}
