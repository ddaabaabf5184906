package commands

import (
	"context"
	"fmt"
	"log/slog"

	application "shopstream/contexts/shop/catalog-service/application"
	domainerrors "shopstream/contexts/shop/catalog-service/domain/errors"
	"shopstream/contexts/shop/catalog-service/ports"
	sharedcommands "shopstream/internal/shared/commands"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateProductInput is the validated user intent behind a
// CreateProductCommand.
type CreateProductInput struct {
	Name          string `validate:"required,min=1,max=100"`
	Price         int64  `validate:"required,gt=0,lte=1000000"`
	Description   string `validate:"required,min=10,max=2000"`
	ImageURL      string `validate:"omitempty,max=500"`
	StockQuantity int    `validate:"gte=0,lte=100000"`
}

type CreateProductResult struct {
	ProductID string
	CommandID string
}

// CreateProductUseCase publishes a CreateProductCommand keyed by the new
// product id. The call returns once the client accepts the record; the
// product row materializes asynchronously when the consumer applies it.
type CreateProductUseCase struct {
	Publisher   ports.CommandPublisher
	Topic       string
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateProductUseCase) Execute(ctx context.Context, input CreateProductInput) (CreateProductResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if u.Publisher == nil {
		return CreateProductResult{}, domainerrors.ErrPublisherUnavailable
	}
	if err := validate.Struct(input); err != nil {
		return CreateProductResult{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidProductRequest, err)
	}

	productID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateProductResult{}, err
	}
	now := u.Clock.Now().UTC()

	envelope, err := sharedcommands.NewEnvelope(sharedcommands.CreateProduct{
		ProductID:            productID,
		Name:                 input.Name,
		Price:                input.Price,
		Description:          input.Description,
		ImageURL:             input.ImageURL,
		InitialStockQuantity: input.StockQuantity,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, now)
	if err != nil {
		return CreateProductResult{}, err
	}
	value, err := sharedcommands.Encode(envelope)
	if err != nil {
		return CreateProductResult{}, err
	}

	if err := u.Publisher.Publish(ctx, u.Topic, productID, value); err != nil {
		logger.Error("create product command publish failed",
			"event", "catalog_create_product_publish_failed",
			"module", "shop/catalog-service",
			"layer", "application",
			"product_id", productID,
			"command_id", envelope.CommandID,
			"error", err.Error(),
		)
		return CreateProductResult{}, err
	}

	logger.Info("create product command published",
		"event", "catalog_create_product_published",
		"module", "shop/catalog-service",
		"layer", "application",
		"product_id", productID,
		"command_id", envelope.CommandID,
	)
	return CreateProductResult{ProductID: productID, CommandID: envelope.CommandID}, nil
}
