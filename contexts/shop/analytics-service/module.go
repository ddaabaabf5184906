package analyticsservice

import (
	"log/slog"
	"time"

	"shopstream/contexts/shop/analytics-service/adapters/memory"
	"shopstream/contexts/shop/analytics-service/application/workers"
	"shopstream/contexts/shop/analytics-service/ports"
)

type Module struct {
	Consumer workers.AnalyticsEventConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Store         ports.KeyValueStore
	Clock         ports.Clock
	ConsumerGroup string
	Metrics       ports.ConsumerMetrics
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	clock := deps.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return Module{
		Consumer: workers.AnalyticsEventConsumer{
			Store:         deps.Store,
			Clock:         clock,
			ConsumerGroup: deps.ConsumerGroup,
			Metrics:       deps.Metrics,
			Logger:        deps.Logger,
		},
	}
}

func NewInMemoryModule(consumerGroup string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Store:         store,
		Clock:         store,
		ConsumerGroup: consumerGroup,
		Logger:        logger,
	})
	module.Store = store
	return module
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
