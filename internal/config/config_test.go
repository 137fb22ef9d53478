package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORE_DRIVER", "CACHE_ENABLED", "KAFKA_BROKERS", "DB_MAX_CONNS", "NOTIFY_BACKEND"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, ":8081", c.HTTPAddr)
	assert.Equal(t, "postgres", c.StoreDriver)
	assert.True(t, c.CacheEnabled)
	assert.Equal(t, []string{"kafka:9092"}, c.KafkaBrokers)
	assert.Equal(t, int32(8), c.DBMaxConns)
	assert.Equal(t, "kafka", c.NotifyBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("DB_MAX_CONNS", "16")
	t.Setenv("NOTIFIER_WORKERS", "not-a-number")

	c := Load()
	assert.Equal(t, "memory", c.StoreDriver)
	assert.False(t, c.CacheEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, int32(16), c.DBMaxConns)
	assert.Equal(t, 4, c.NotifierWorkers)
}
