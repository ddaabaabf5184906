package catalogservice

import (
	"log/slog"

	httpadapter "shopstream/contexts/shop/catalog-service/adapters/http"
	"shopstream/contexts/shop/catalog-service/adapters/memory"
	"shopstream/contexts/shop/catalog-service/application/commands"
	"shopstream/contexts/shop/catalog-service/application/queries"
	"shopstream/contexts/shop/catalog-service/application/workers"
	"shopstream/contexts/shop/catalog-service/domain/entities"
	"shopstream/contexts/shop/catalog-service/ports"
	"shopstream/internal/platform/messaging"
)

type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.ProductCommandConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Products      ports.ProductRepository
	Publisher     ports.CommandPublisher
	CommandTopic  string
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	ConsumerGroup string
	Metrics       ports.ConsumerMetrics
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createProduct := commands.CreateProductUseCase{
		Publisher:   deps.Publisher,
		Topic:       deps.CommandTopic,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	deleteProduct := commands.DeleteProductUseCase{
		Products:  deps.Products,
		Publisher: deps.Publisher,
		Topic:     deps.CommandTopic,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}

	getProduct := queries.GetProductUseCase{
		Products: deps.Products,
		Logger:   deps.Logger,
	}
	listProducts := queries.ListProductsUseCase{
		Products: deps.Products,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateProduct: createProduct,
			DeleteProduct: deleteProduct,
			GetProduct:    getProduct,
			ListProducts:  listProducts,
			Logger:        deps.Logger,
		},
		Consumer: workers.ProductCommandConsumer{
			Repository:    deps.Products,
			Clock:         deps.Clock,
			ConsumerGroup: deps.ConsumerGroup,
			Metrics:       deps.Metrics,
			Logger:        deps.Logger,
		},
	}
}

func NewInMemoryModule(
	seed []entities.Product,
	publisher ports.CommandPublisher,
	consumerGroup string,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Products:      store,
		Publisher:     publisher,
		CommandTopic:  messaging.TopicProductCommands,
		Clock:         store,
		IDGenerator:   store,
		ConsumerGroup: consumerGroup,
		Logger:        logger,
	})
	module.Store = store
	return module
}
