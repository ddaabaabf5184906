package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	analyticsservice "shopstream/contexts/shop/analytics-service"
	analyticsports "shopstream/contexts/shop/analytics-service/ports"
	catalogservice "shopstream/contexts/shop/catalog-service"
	catalogpostgres "shopstream/contexts/shop/catalog-service/adapters/postgres"
	orderingservice "shopstream/contexts/shop/ordering-service"
	orderingpostgres "shopstream/contexts/shop/ordering-service/adapters/postgres"
	orderingports "shopstream/contexts/shop/ordering-service/ports"
	"shopstream/internal/platform/config"
	"shopstream/internal/platform/db"
	"shopstream/internal/platform/httpserver"
	"shopstream/internal/platform/kvstore"
	"shopstream/internal/platform/messaging"
	"shopstream/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	publisher *messaging.Publisher
	logger    *slog.Logger
}

type WorkerApp struct {
	loops       []messaging.ConsumerLoop
	postgres    *db.Postgres
	publisher   *messaging.Publisher
	kvCloser    func() error
	metricsAddr string
	registry    *prometheus.Registry
	logger      *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(messaging.KafkaConfig{
		Brokers:      cfg.KafkaBrokers,
		SASLUsername: cfg.KafkaSASLUsername,
		SASLPassword: cfg.KafkaSASLPassword,
		UseTLS:       cfg.KafkaUseTLS,
	}, logger)
	if err != nil {
		return nil, err
	}
	publisher := kafka.NewPublisher()

	catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
	catalog := catalogservice.NewModule(catalogservice.Dependencies{
		Products:     catalogRepo,
		Publisher:    publisher,
		CommandTopic: messaging.TopicProductCommands,
		Clock:        catalogpostgres.SystemClock{},
		IDGenerator:  catalogpostgres.UUIDGenerator{},
		Logger:       logger,
	})

	orderingRepo := orderingpostgres.NewRepository(pg.DB, logger)
	ordering := orderingservice.NewModule(orderingservice.Dependencies{
		Orders:       orderingRepo,
		Products:     orderingRepo,
		Publisher:    publisher,
		CommandTopic: messaging.TopicOrderCommands,
		Clock:        orderingpostgres.SystemClock{},
		IDGenerator:  orderingpostgres.UUIDGenerator{},
		Logger:       logger,
	})

	registry := prometheus.NewRegistry()
	server := httpserver.New(catalog, ordering, registry, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:    server,
		postgres:  pg,
		publisher: publisher,
		logger:    logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(messaging.KafkaConfig{
		Brokers:      cfg.KafkaBrokers,
		SASLUsername: cfg.KafkaSASLUsername,
		SASLPassword: cfg.KafkaSASLPassword,
		UseTLS:       cfg.KafkaUseTLS,
	}, logger)
	if err != nil {
		return nil, err
	}
	kafka.EnsureTopics(context.Background(), messaging.AllTopics())
	publisher := kafka.NewPublisher()

	registry := prometheus.NewRegistry()
	consumerMetrics := metrics.NewConsumer(registry)

	app := &WorkerApp{
		postgres:    pg,
		publisher:   publisher,
		metricsAddr: normalizeAddr(cfg.HTTPPort),
		registry:    registry,
		logger:      logger,
	}

	if cfg.EnableProductConsumer {
		group := cfg.KafkaGroupID + "-product"
		catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
		catalog := catalogservice.NewModule(catalogservice.Dependencies{
			Products:      catalogRepo,
			Publisher:     publisher,
			CommandTopic:  messaging.TopicProductCommands,
			Clock:         catalogpostgres.SystemClock{},
			IDGenerator:   catalogpostgres.UUIDGenerator{},
			ConsumerGroup: group,
			Metrics:       consumerMetrics,
			Logger:        logger,
		})
		app.loops = append(app.loops, messaging.ConsumerLoop{
			Source: kafka.NewSource(messaging.TopicProductCommands, group),
			Handler: func(ctx context.Context, msg messaging.Message) error {
				return catalog.Consumer.HandleMessage(ctx, msg.Value)
			},
			Group:       group,
			PollTimeout: cfg.PollTimeout,
			Metrics:     consumerMetrics,
			Logger:      logger,
		})
	}

	if cfg.EnableOrderConsumer {
		group := cfg.KafkaGroupID + "-order"
		orderingRepo := orderingpostgres.NewRepository(pg.DB, logger)
		ordering := orderingservice.NewModule(orderingservice.Dependencies{
			Orders:          orderingRepo,
			Products:        orderingRepo,
			Publisher:       publisher,
			Events:          publisher,
			CommandTopic:    messaging.TopicOrderCommands,
			AnalyticsTopic:  messaging.TopicAnalyticsEvents,
			InventoryPolicy: orderingports.InventoryPolicy{AllowNegativeStock: cfg.AllowNegativeStock},
			Clock:           orderingpostgres.SystemClock{},
			IDGenerator:     orderingpostgres.UUIDGenerator{},
			ConsumerGroup:   group,
			Metrics:         consumerMetrics,
			Logger:          logger,
		})
		app.loops = append(app.loops, messaging.ConsumerLoop{
			Source: kafka.NewSource(messaging.TopicOrderCommands, group),
			Handler: func(ctx context.Context, msg messaging.Message) error {
				return ordering.Consumer.HandleMessage(ctx, msg.Value)
			},
			Group:       group,
			PollTimeout: cfg.PollTimeout,
			Metrics:     consumerMetrics,
			Logger:      logger,
		})
	}

	if cfg.EnableAnalyticsConsumer {
		group := cfg.KafkaGroupID + "-analytics"
		store, closer, err := buildAnalyticsStore(cfg)
		if err != nil {
			return nil, err
		}
		app.kvCloser = closer
		analytics := analyticsservice.NewModule(analyticsservice.Dependencies{
			Store:         store,
			ConsumerGroup: group,
			Metrics:       consumerMetrics,
			Logger:        logger,
		})
		app.loops = append(app.loops, messaging.ConsumerLoop{
			Source: kafka.NewSource(messaging.TopicAnalyticsEvents, group),
			Handler: func(ctx context.Context, msg messaging.Message) error {
				return analytics.Consumer.HandleMessage(ctx, msg.Value)
			},
			Group:       group,
			PollTimeout: cfg.PollTimeout,
			Metrics:     consumerMetrics,
			Logger:      logger,
		})
	}

	return app, nil
}

func buildAnalyticsStore(cfg config.Config) (analyticsports.KeyValueStore, func() error, error) {
	if cfg.AnalyticsStore == "badger" {
		store, err := kvstore.NewBadger(cfg.BadgerPath, false)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	store, err := kvstore.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

// Run supervises every enabled consumption loop until ctx is cancelled or a
// loop fails. The metrics listener runs alongside but never stops the app.
func (w *WorkerApp) Run(ctx context.Context) error {
	if len(w.loops) == 0 {
		return errors.New("no consumers enabled")
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"consumer_loops", len(w.loops),
	)

	go w.serveMetrics()

	group, groupCtx := errgroup.WithContext(ctx)
	for _, loop := range w.loops {
		loop := loop
		group.Go(func() error {
			return loop.Run(groupCtx)
		})
	}
	return group.Wait()
}

func (w *WorkerApp) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(w.registry, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(w.metricsAddr, mux); err != nil {
		w.logger.Error("metrics listener stopped",
			"event", "bootstrap_metrics_listener_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.publisher != nil {
		errs = append(errs, w.publisher.Close())
	}
	if w.kvCloser != nil {
		errs = append(errs, w.kvCloser())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
