package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/storefront/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "storefront", cfg.Observability.ServiceName)
	assert.False(t, cfg.Messaging.Enabled)
}

func TestDisabledCacheFallsBackToNoop(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_DRIVER", "redis")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, "noop", cfg.Cache.Driver)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_WRITER_DSN", "file:storefront.db")
	t.Setenv("CACHE_DEFAULT_TTL", "30s")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:storefront.db", cfg.Database.WriterDSN)
	assert.Equal(t, 30*time.Second, cfg.Cache.DefaultTTL)
}

func TestInvalidHTTPPortRejected(t *testing.T) {
	t.Setenv("HTTP_PORT", "-1")

	_, err := config.New()
	require.Error(t, err)
}

func TestUnsupportedCacheDriverRejected(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_DRIVER", "memcached")

	_, err := config.New()
	require.Error(t, err)
}
