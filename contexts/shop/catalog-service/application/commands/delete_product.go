package commands

import (
	"context"
	"log/slog"

	application "shopstream/contexts/shop/catalog-service/application"
	domainerrors "shopstream/contexts/shop/catalog-service/domain/errors"
	"shopstream/contexts/shop/catalog-service/ports"
	sharedcommands "shopstream/internal/shared/commands"
)

type DeleteProductResult struct {
	CommandID string
}

// DeleteProductUseCase verifies the product exists, then publishes a
// DeleteProductCommand keyed by the product id. Row removal happens in the
// consumer; outstanding orders are not checked.
type DeleteProductUseCase struct {
	Products  ports.ProductRepository
	Publisher ports.CommandPublisher
	Topic     string
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u DeleteProductUseCase) Execute(ctx context.Context, productID string) (DeleteProductResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if u.Publisher == nil {
		return DeleteProductResult{}, domainerrors.ErrPublisherUnavailable
	}

	if _, err := u.Products.GetProduct(ctx, productID); err != nil {
		return DeleteProductResult{}, err
	}

	envelope, err := sharedcommands.NewEnvelope(sharedcommands.DeleteProduct{
		ProductID: productID,
	}, u.Clock.Now().UTC())
	if err != nil {
		return DeleteProductResult{}, err
	}
	value, err := sharedcommands.Encode(envelope)
	if err != nil {
		return DeleteProductResult{}, err
	}

	if err := u.Publisher.Publish(ctx, u.Topic, productID, value); err != nil {
		logger.Error("delete product command publish failed",
			"event", "catalog_delete_product_publish_failed",
			"module", "shop/catalog-service",
			"layer", "application",
			"product_id", productID,
			"command_id", envelope.CommandID,
			"error", err.Error(),
		)
		return DeleteProductResult{}, err
	}

	logger.Info("delete product command published",
		"event", "catalog_delete_product_published",
		"module", "shop/catalog-service",
		"layer", "application",
		"product_id", productID,
		"command_id", envelope.CommandID,
	)
	return DeleteProductResult{CommandID: envelope.CommandID}, nil
}
