package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	cacheadapter "github.com/couchcryptid/climate-anomaly-service/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/climate-anomaly-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-anomaly-service/internal/adapter/kafka"
	"github.com/couchcryptid/climate-anomaly-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/climate-anomaly-service/internal/config"
	"github.com/couchcryptid/climate-anomaly-service/internal/domain"
	"github.com/couchcryptid/climate-anomaly-service/internal/observability"
	"github.com/couchcryptid/climate-anomaly-service/internal/service"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	client := openmeteo.NewClient(cfg, clock, metrics, logger)
	geocoder := cacheadapter.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)

	// Wrap the weather source in the SQLite cache when enabled (CACHE_ENABLED /
	// CACHE_PATH). The store doubles as the readiness check.
	var source domain.WeatherSource = client
	var readiness service.Pinger
	if cfg.CacheEnabled {
		store, err := cacheadapter.Open(cfg.CachePath, clock)
		if err != nil {
			logger.Error("failed to open cache store", "path", cfg.CachePath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		source = cacheadapter.NewCachedSource(client, store, cfg.CurrentTTL, cfg.HistoricalTTL, metrics, logger)
		readiness = store
		logger.Info("weather cache enabled", "path", cfg.CachePath, "current_ttl", cfg.CurrentTTL, "historical_ttl", cfg.HistoricalTTL)
	} else {
		logger.Info("weather cache disabled")
	}

	// Publisher is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher domain.AnomalyPublisher
	var publisherClose func() error
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		publisher = p
		publisherClose = p.Close
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	svc := service.New(service.Deps{
		Geocoder:     geocoder,
		Source:       source,
		Publisher:    publisher,
		Readiness:    readiness,
		Clock:        clock,
		Logger:       logger,
		Metrics:      metrics,
		HistoryYears: cfg.HistoryYears,
		Threshold:    cfg.AnomalyThreshold,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisherClose != nil {
		if err := publisherClose(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
