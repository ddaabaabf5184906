package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	KafkaBrokers      []string
	KafkaGroupID      string
	KafkaSASLUsername string
	KafkaSASLPassword string
	KafkaUseTLS       bool
	PollTimeout       time.Duration

	AnalyticsStore string // "redis" or "badger"
	RedisAddr      string
	RedisDB        int
	RedisPassword  string
	BadgerPath     string

	EnableProductConsumer   bool
	EnableOrderConsumer     bool
	EnableAnalyticsConsumer bool
	AllowNegativeStock      bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "shopstream"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BOOTSTRAP_SERVERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	groupID := os.Getenv("KAFKA_GROUP_ID")
	if groupID == "" {
		groupID = "shopstream"
	}

	analyticsStore := strings.ToLower(strings.TrimSpace(os.Getenv("ANALYTICS_STORE")))
	if analyticsStore != "badger" {
		analyticsStore = "redis"
	}

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	badgerPath := os.Getenv("BADGER_PATH")
	if badgerPath == "" {
		badgerPath = "data/analytics"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		KafkaBrokers:      brokers,
		KafkaGroupID:      groupID,
		KafkaSASLUsername: os.Getenv("KAFKA_SASL_USERNAME"),
		KafkaSASLPassword: os.Getenv("KAFKA_SASL_PASSWORD"),
		KafkaUseTLS:       envBool("KAFKA_USE_TLS", false),
		PollTimeout:       envDuration("KAFKA_POLL_TIMEOUT", time.Second),

		AnalyticsStore: analyticsStore,
		RedisAddr:      redisHost + ":" + redisPort,
		RedisDB:        envInt("REDIS_DB", 0),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		BadgerPath:     badgerPath,

		EnableProductConsumer:   envBool("ENABLE_PRODUCT_CONSUMER", true),
		EnableOrderConsumer:     envBool("ENABLE_ORDER_CONSUMER", true),
		EnableAnalyticsConsumer: envBool("ENABLE_ANALYTICS_CONSUMER", true),
		AllowNegativeStock:      envBool("ALLOW_NEGATIVE_STOCK", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
