package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.HistoryYears)
	assert.Equal(t, 2.0, cfg.AnomalyThreshold)
	assert.Equal(t, 10*time.Second, cfg.OpenMeteoTimeout)
	assert.Equal(t, 30*time.Second, cfg.ArchiveTimeout)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, "climate-cache.db", cfg.CachePath)
	assert.Equal(t, time.Hour, cfg.CurrentTTL)
	assert.Equal(t, 24*time.Hour, cfg.HistoricalTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "climate-anomaly-events", cfg.KafkaSinkTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("HISTORY_YEARS", "5")
	t.Setenv("ANOMALY_THRESHOLD", "2.5")
	t.Setenv("OPENMETEO_TIMEOUT", "15s")
	t.Setenv("ARCHIVE_TIMEOUT", "1m")
	t.Setenv("GEOCODE_CACHE_SIZE", "500")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CURRENT_TTL", "30m")
	t.Setenv("HISTORICAL_TTL", "48h")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-anomalies")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5, cfg.HistoryYears)
	assert.Equal(t, 2.5, cfg.AnomalyThreshold)
	assert.Equal(t, 15*time.Second, cfg.OpenMeteoTimeout)
	assert.Equal(t, time.Minute, cfg.ArchiveTimeout)
	assert.Equal(t, 500, cfg.GeocodeCacheSize)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 30*time.Minute, cfg.CurrentTTL)
	assert.Equal(t, 48*time.Hour, cfg.HistoricalTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-anomalies", cfg.KafkaSinkTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidHistoryYears(t *testing.T) {
	for _, v := range []string{"0", "51", "ten"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("HISTORY_YEARS", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "HISTORY_YEARS")
		})
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	for _, v := range []string{"0", "-2", "high"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("ANOMALY_THRESHOLD", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "ANOMALY_THRESHOLD")
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single", "localhost:9092", []string{"localhost:9092"}},
		{"multiple with spaces", "a:9092, b:9092 ,c:9092", []string{"a:9092", "b:9092", "c:9092"}},
		{"empty", "", nil},
		{"only commas", ",,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseBrokers(tt.input))
		})
	}
}
