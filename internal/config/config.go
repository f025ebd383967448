package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Analysis parameters.
	HistoryYears     int
	AnomalyThreshold float64

	// Open-Meteo client configuration. The archive endpoint returns ten years
	// of hourly data per call and gets its own, longer timeout.
	OpenMeteoTimeout time.Duration
	ArchiveTimeout   time.Duration
	GeocodeCacheSize int

	// Local response cache.
	CacheEnabled  bool
	CachePath     string
	CurrentTTL    time.Duration
	HistoricalTTL time.Duration

	// Kafka anomaly event publishing.
	KafkaBrokers   []string
	KafkaEnabled   bool
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	openMeteoTimeout, err := parseDuration("OPENMETEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	archiveTimeout, err := parseDuration("ARCHIVE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	currentTTL, err := parseDuration("CURRENT_TTL", "1h")
	if err != nil {
		return nil, err
	}
	historicalTTL, err := parseDuration("HISTORICAL_TTL", "24h")
	if err != nil {
		return nil, err
	}

	historyYears, err := parseInt("HISTORY_YEARS", 10, 1, 50)
	if err != nil {
		return nil, err
	}
	geocodeCacheSize, err := parseInt("GEOCODE_CACHE_SIZE", 1000, 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	threshold, err := parseThreshold()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		HistoryYears:     historyYears,
		AnomalyThreshold: threshold,

		OpenMeteoTimeout: openMeteoTimeout,
		ArchiveTimeout:   archiveTimeout,
		GeocodeCacheSize: geocodeCacheSize,

		CacheEnabled:  envOrDefault("CACHE_ENABLED", "true") == "true",
		CachePath:     envOrDefault("CACHE_PATH", "climate-cache.db"),
		CurrentTTL:    currentTTL,
		HistoricalTTL: historicalTTL,

		KafkaBrokers:   brokers,
		KafkaEnabled:   kafkaEnabled,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "climate-anomaly-events"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when Kafka is enabled")
	}
	if cfg.CacheEnabled && cfg.CachePath == "" {
		return nil, errors.New("CACHE_PATH is required when CACHE_ENABLED is true")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, fallback, minValue, maxValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minValue || n > maxValue {
		return 0, fmt.Errorf("invalid %s: %q (want %d-%d)", key, s, minValue, maxValue)
	}
	return n, nil
}

func parseThreshold() (float64, error) {
	s := os.Getenv("ANOMALY_THRESHOLD")
	if s == "" {
		return 2.0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid ANOMALY_THRESHOLD: %q", s)
	}
	return v, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
