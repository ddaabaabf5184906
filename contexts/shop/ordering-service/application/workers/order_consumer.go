package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	application "shopstream/contexts/shop/ordering-service/application"
	"shopstream/contexts/shop/ordering-service/domain/entities"
	"shopstream/contexts/shop/ordering-service/ports"
	sharedcommands "shopstream/internal/shared/commands"
	"shopstream/internal/shared/events"
)

const (
	discardMalformed    = "malformed"
	discardMissingField = "missing_field"
	discardUnexpected   = "unexpected_command_type"
)

// OrderCommandConsumer applies order commands. Creation is the only command
// with a durable effect: the order insert and the inventory decrement share
// one transaction, and on commit an OrderCreated analytics event is emitted
// on a best-effort basis. Update and delete commands are acknowledged
// without touching state.
type OrderCommandConsumer struct {
	Repository      ports.OrderRepository
	Products        ports.ProductReader
	Events          ports.EventPublisher
	AnalyticsTopic  string
	InventoryPolicy ports.InventoryPolicy
	ConsumerGroup   string
	Metrics         ports.ConsumerMetrics
	Logger          *slog.Logger
}

// HandleMessage processes one delivered record. A non-nil return marks a
// rolled-back order transaction; under auto-commit offsets the command is
// effectively dropped.
func (c OrderCommandConsumer) HandleMessage(ctx context.Context, value []byte) error {
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
	case sharedcommands.CreateOrder:
		return c.applyCreate(ctx, logger, envelope, command)
	case sharedcommands.UpdateOrder:
		logger.Info("order update acknowledged without effect",
			"event", "ordering_update_noop",
			"module", "shop/ordering-service",
			"layer", "worker",
			"command_id", envelope.CommandID,
			"order_id", command.OrderID,
		)
		return nil
	case sharedcommands.DeleteOrder:
		logger.Info("order delete acknowledged without effect",
			"event", "ordering_delete_noop",
			"module", "shop/ordering-service",
			"layer", "worker",
			"command_id", envelope.CommandID,
			"order_id", command.OrderID,
		)
		return nil
	default:
		c.discard(logger, discardUnexpected, envelope.CommandID, string(envelope.CommandType))
		return nil
	}
}

func (c OrderCommandConsumer) applyCreate(
	ctx context.Context,
	logger *slog.Logger,
	envelope sharedcommands.Envelope,
	command sharedcommands.CreateOrder,
) error {
	order := entities.Order{
		ID:        command.OrderID,
		ProductID: command.ProductID,
		Quantity:  command.Quantity,
		// The wire field is a float for legacy reasons; storage truncates
		// toward zero, matching the relational column type.
		TotalPrice: int64(command.TotalPrice),
		CreatedAt:  command.CreatedAt.UTC(),
		UpdatedAt:  command.UpdatedAt.UTC(),
	}

	result, err := c.Repository.CreateOrderAdjustingInventory(ctx, order, command.UpdatedAt.UTC(), c.InventoryPolicy)
	if err != nil {
		logger.Error("order creation transaction failed",
			"event", "ordering_order_create_failed",
			"module", "shop/ordering-service",
			"layer", "worker",
			"command_id", envelope.CommandID,
			"order_id", command.OrderID,
			"product_id", command.ProductID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("order created",
		"event", "ordering_order_created",
		"module", "shop/ordering-service",
		"layer", "worker",
		"command_id", envelope.CommandID,
		"order_id", command.OrderID,
		"product_id", command.ProductID,
		"quantity", command.Quantity,
		"inventory_adjusted", result.InventoryAdjusted,
		"remaining_stock", result.RemainingStock,
	)

	c.emitOrderCreated(ctx, logger, envelope, order)
	return nil
}

// emitOrderCreated runs after the order transaction committed. Any failure
// here, a missing product row, a marshal error, a broker refusal, degrades
// to a log line: the order stands and the offset still advances.
func (c OrderCommandConsumer) emitOrderCreated(
	ctx context.Context,
	logger *slog.Logger,
	envelope sharedcommands.Envelope,
	order entities.Order,
) {
	if c.Events == nil {
		return
	}

	snapshot, found, err := c.Products.GetProductSnapshot(ctx, order.ProductID)
	if err != nil || !found {
		detail := "product row missing"
		if err != nil {
			detail = err.Error()
		}
		logger.Warn("analytics event skipped",
			"event", "ordering_analytics_skipped",
			"module", "shop/ordering-service",
			"layer", "worker",
			"command_id", envelope.CommandID,
			"order_id", order.ID,
			"product_id", order.ProductID,
			"detail", detail,
		)
		return
	}

	event := events.OrderCreated{
		EventType:      events.EventTypeOrderCreated,
		OrderID:        order.ID,
		Quantity:       order.Quantity,
		TotalPrice:     order.TotalPrice,
		OrderCreatedAt: order.CreatedAt,
		ProductDetails: events.ProductDetails{
			ProductID:   snapshot.ProductID,
			Name:        snapshot.Name,
			Price:       snapshot.Price,
			Description: snapshot.Description,
			ImageURL:    snapshot.ImageURL,
		},
	}
	value, err := json.Marshal(event)
	if err != nil {
		logger.Warn("analytics event marshal failed",
			"event", "ordering_analytics_marshal_failed",
			"module", "shop/ordering-service",
			"layer", "worker",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return
	}

	if err := c.Events.Publish(ctx, c.AnalyticsTopic, order.ID, value); err != nil {
		logger.Warn("analytics event publish failed",
			"event", "ordering_analytics_publish_failed",
			"module", "shop/ordering-service",
			"layer", "worker",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return
	}

	logger.Info("analytics event published",
		"event", "ordering_analytics_published",
		"module", "shop/ordering-service",
		"layer", "worker",
		"order_id", order.ID,
	)
}

func (c OrderCommandConsumer) discard(logger *slog.Logger, reason string, commandID string, detail string) {
	if c.Metrics != nil {
		c.Metrics.Discarded(c.ConsumerGroup, reason)
	}
	logger.Warn("order command discarded",
		"event", "ordering_command_discarded",
		"module", "shop/ordering-service",
		"layer", "worker",
		"consumer_group", c.ConsumerGroup,
		"reason", reason,
		"command_id", commandID,
		"detail", detail,
	)
}
