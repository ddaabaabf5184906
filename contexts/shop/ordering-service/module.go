package orderingservice

import (
	"log/slog"

	httpadapter "shopstream/contexts/shop/ordering-service/adapters/http"
	"shopstream/contexts/shop/ordering-service/adapters/memory"
	"shopstream/contexts/shop/ordering-service/application/commands"
	"shopstream/contexts/shop/ordering-service/application/queries"
	"shopstream/contexts/shop/ordering-service/application/workers"
	"shopstream/contexts/shop/ordering-service/ports"
	"shopstream/internal/platform/messaging"
)

type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.OrderCommandConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Orders          ports.OrderRepository
	Products        ports.ProductReader
	Publisher       ports.CommandPublisher
	Events          ports.EventPublisher
	CommandTopic    string
	AnalyticsTopic  string
	InventoryPolicy ports.InventoryPolicy
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	ConsumerGroup   string
	Metrics         ports.ConsumerMetrics
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createOrder := commands.CreateOrderUseCase{
		Products:    deps.Products,
		Publisher:   deps.Publisher,
		Topic:       deps.CommandTopic,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	deleteOrder := commands.DeleteOrderUseCase{
		Orders:    deps.Orders,
		Publisher: deps.Publisher,
		Topic:     deps.CommandTopic,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}

	getOrder := queries.GetOrderUseCase{
		Orders: deps.Orders,
		Logger: deps.Logger,
	}
	listOrders := queries.ListOrdersUseCase{
		Orders: deps.Orders,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateOrder: createOrder,
			DeleteOrder: deleteOrder,
			GetOrder:    getOrder,
			ListOrders:  listOrders,
			Logger:      deps.Logger,
		},
		Consumer: workers.OrderCommandConsumer{
			Repository:      deps.Orders,
			Products:        deps.Products,
			Events:          deps.Events,
			AnalyticsTopic:  deps.AnalyticsTopic,
			InventoryPolicy: deps.InventoryPolicy,
			ConsumerGroup:   deps.ConsumerGroup,
			Metrics:         deps.Metrics,
			Logger:          deps.Logger,
		},
	}
}

func NewInMemoryModule(
	seedProducts []ports.ProductSnapshot,
	seedInventory []memory.InventoryRecord,
	publisher ports.CommandPublisher,
	events ports.EventPublisher,
	consumerGroup string,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedProducts, seedInventory)
	module := NewModule(Dependencies{
		Orders:          store,
		Products:        store,
		Publisher:       publisher,
		Events:          events,
		CommandTopic:    messaging.TopicOrderCommands,
		AnalyticsTopic:  messaging.TopicAnalyticsEvents,
		InventoryPolicy: ports.InventoryPolicy{AllowNegativeStock: true},
		Clock:           store,
		IDGenerator:     store,
		ConsumerGroup:   consumerGroup,
		Logger:          logger,
	})
	module.Store = store
	return module
}
