package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("KAFKA_SEED_BROKERS", "")

	cfg := Load("")

	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, time.Hour, cfg.Cache.CatalogTTL)
	assert.Equal(t, 24, cfg.JWT.Expiry)
	assert.Empty(t, cfg.Kafka.SeedBrokers)
	assert.Equal(t, "orders.placed", cfg.Kafka.OrderTopic)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("CACHE_CATALOG_TTL", "10m")
	t.Setenv("KAFKA_SEED_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example.com")

	cfg := Load("")

	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Cache.CatalogTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.SeedBrokers)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.Server.AllowedOrigins)
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "zenith",
		Password: "secret",
		Database: "store",
		Schema:   "public",
	}

	assert.Equal(t, "postgres://zenith:secret@db:5432/store?sslmode=disable&search_path=public", db.DSN())
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: "6380"}.Addr())
}
