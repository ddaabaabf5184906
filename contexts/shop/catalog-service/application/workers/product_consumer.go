package workers

import (
	"context"
	"errors"
	"log/slog"

	application "shopstream/contexts/shop/catalog-service/application"
	"shopstream/contexts/shop/catalog-service/domain/entities"
	domainerrors "shopstream/contexts/shop/catalog-service/domain/errors"
	"shopstream/contexts/shop/catalog-service/ports"
	sharedcommands "shopstream/internal/shared/commands"
)

const (
	discardMalformed    = "malformed"
	discardMissingField = "missing_field"
	discardUnexpected   = "unexpected_command_type"
	discardMissingRow   = "missing_row"
)

// ProductCommandConsumer applies product commands against the relational
// store. Undecodable or unexpected messages are logged and discarded; there
// is no dead-letter topic, so that discard is final.
type ProductCommandConsumer struct {
	Repository    ports.ProductRepository
	Clock         ports.Clock
	ConsumerGroup string
	Metrics       ports.ConsumerMetrics
	Logger        *slog.Logger
}

// HandleMessage processes one delivered record. A non-nil return marks a
// store write failure: the transaction rolled back and, under auto-commit
// offsets, the command is effectively dropped.
func (c ProductCommandConsumer) HandleMessage(ctx context.Context, value []byte) error {
	logger := application.ResolveLogger(c.Logger)

	envelope, cmd, err := sharedcommands.Decode(value)
	if err != nil {
		reason := discardMalformed
		if errors.Is(err, sharedcommands.ErrMissingField) {
			reason = discardMissingField
		}
		c.discard(logger, reason, envelope.CommandID, err.Error())
		return nil
	}

	switch command := cmd.(type) {
	case sharedcommands.CreateProduct:
		return c.applyCreate(ctx, logger, envelope, command)
	case sharedcommands.DeleteProduct:
		return c.applyDelete(ctx, logger, envelope, command)
	default:
		c.discard(logger, discardUnexpected, envelope.CommandID, string(envelope.CommandType))
		return nil
	}
}

func (c ProductCommandConsumer) applyCreate(
	ctx context.Context,
	logger *slog.Logger,
	envelope sharedcommands.Envelope,
	command sharedcommands.CreateProduct,
) error {
	now := c.Clock.Now().UTC()
	product := entities.Product{
		ID:          command.ProductID,
		Name:        command.Name,
		Price:       command.Price,
		Description: command.Description,
		ImageURL:    command.ImageURL,
		CreatedAt:   command.CreatedAt.UTC(),
		UpdatedAt:   command.UpdatedAt.UTC(),
	}
	inventory := entities.Inventory{
		ProductID:         command.ProductID,
		Quantity:          command.InitialStockQuantity,
		LowStockThreshold: entities.DefaultLowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := c.Repository.CreateProductWithInventory(ctx, product, inventory); err != nil {
		logger.Error("product creation transaction failed",
			"event", "catalog_product_create_failed",
			"module", "shop/catalog-service",
			"layer", "worker",
			"command_id", envelope.CommandID,
			"product_id", command.ProductID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("product and inventory created",
		"event", "catalog_product_created",
		"module", "shop/catalog-service",
		"layer", "worker",
		"command_id", envelope.CommandID,
		"product_id", command.ProductID,
		"initial_stock", command.InitialStockQuantity,
	)
	return nil
}

func (c ProductCommandConsumer) applyDelete(
	ctx context.Context,
	logger *slog.Logger,
	envelope sharedcommands.Envelope,
	command sharedcommands.DeleteProduct,
) error {
	err := c.Repository.DeleteProductWithInventory(ctx, command.ProductID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrProductNotFound) {
			c.discard(logger, discardMissingRow, envelope.CommandID, command.ProductID)
			return nil
		}
		logger.Error("product deletion transaction failed",
			"event", "catalog_product_delete_failed",
			"module", "shop/catalog-service",
			"layer", "worker",
			"command_id", envelope.CommandID,
			"product_id", command.ProductID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("product and inventory deleted",
		"event", "catalog_product_deleted",
		"module", "shop/catalog-service",
		"layer", "worker",
		"command_id", envelope.CommandID,
		"product_id", command.ProductID,
	)
	return nil
}

func (c ProductCommandConsumer) discard(logger *slog.Logger, reason string, commandID string, detail string) {
	if c.Metrics != nil {
		c.Metrics.Discarded(c.ConsumerGroup, reason)
	}
	logger.Warn("product command discarded",
		"event", "catalog_command_discarded",
		"module", "shop/catalog-service",
		"layer", "worker",
		"consumer_group", c.ConsumerGroup,
		"reason", reason,
		"command_id", commandID,
		"detail", detail,
	)
}
