package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "google_shopping", cfg.SerpAPI.Engine)
	assert.Equal(t, "United Kingdom", cfg.SerpAPI.Location)
	assert.Equal(t, "en", cfg.SerpAPI.Language)
	assert.Equal(t, "uk", cfg.SerpAPI.Region)
	assert.Equal(t, 20, cfg.SerpAPI.ResultCount)
	assert.Equal(t, 15*time.Second, cfg.SerpAPI.Timeout)
	assert.Equal(t, "UK", cfg.Search.CountryCode)
	assert.Equal(t, 10, cfg.Search.HistoryLimit)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Server.Pprof)
	assert.Equal(t, 30*time.Second, cfg.Server.PingInterval)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERPAPI_API_KEY", "secret")
	t.Setenv("SERPAPI_TIMEOUT", "3s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.SerpAPI.APIKey)
	assert.Equal(t, 3*time.Second, cfg.SerpAPI.Timeout)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SEARCH_HISTORY_LIMIT", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "SEARCH_HISTORY_LIMIT")
}
