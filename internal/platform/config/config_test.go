package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "shopstream" {
		t.Fatalf("expected default service name, got %s", cfg.ServiceName)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("expected default broker list, got %v", cfg.KafkaBrokers)
	}
	if cfg.PollTimeout != time.Second {
		t.Fatalf("expected 1s poll timeout, got %v", cfg.PollTimeout)
	}
	if !cfg.AllowNegativeStock {
		t.Fatalf("legacy inventory behavior must default to allowing negative stock")
	}
	if cfg.AnalyticsStore != "redis" {
		t.Fatalf("expected redis analytics store by default, got %s", cfg.AnalyticsStore)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "broker-a:9092, broker-b:9092 ,")
	t.Setenv("KAFKA_POLL_TIMEOUT", "250ms")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "off")
	t.Setenv("ANALYTICS_STORE", "Badger")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("ENABLE_ORDER_CONSUMER", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "broker-b:9092" {
		t.Fatalf("expected trimmed broker list, got %v", cfg.KafkaBrokers)
	}
	if cfg.PollTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms poll timeout, got %v", cfg.PollTimeout)
	}
	if cfg.AllowNegativeStock {
		t.Fatalf("expected negative stock disabled")
	}
	if cfg.AnalyticsStore != "badger" {
		t.Fatalf("expected badger analytics store, got %s", cfg.AnalyticsStore)
	}
	if cfg.RedisAddr != "cache.internal:6380" {
		t.Fatalf("unexpected redis addr %s", cfg.RedisAddr)
	}
	if cfg.EnableOrderConsumer {
		t.Fatalf("expected order consumer disabled")
	}
}

func TestEnvBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ALLOW_NEGATIVE_STOCK", "maybe")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.AllowNegativeStock {
		t.Fatalf("unparseable boolean must keep the fallback")
	}
}
