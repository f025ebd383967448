package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/climate-anomaly-service/internal/domain"
	"github.com/couchcryptid/climate-anomaly-service/internal/observability"
)

// CachedSource wraps a WeatherSource with the SQLite TTL store. Cache
// failures degrade to a direct upstream fetch rather than failing the request.
type CachedSource struct {
	inner         domain.WeatherSource
	store         *Store
	currentTTL    time.Duration
	historicalTTL time.Duration
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewCachedSource creates a cache decorator around a weather source.
func NewCachedSource(inner domain.WeatherSource, store *Store, currentTTL, historicalTTL time.Duration, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:         inner,
		store:         store,
		currentTTL:    currentTTL,
		historicalTTL: historicalTTL,
		metrics:       metrics,
		logger:        logger,
	}
}

func (c *CachedSource) FetchCurrent(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error) {
	var current domain.CurrentConditions
	hit, err := c.lookup(ctx, "current", lat, lon, &current)
	if err != nil {
		c.logger.Warn("cache lookup failed, fetching upstream", "kind", "current", "error", err)
	}
	if hit {
		return current, nil
	}

	current, err = c.inner.FetchCurrent(ctx, lat, lon)
	if err != nil {
		return domain.CurrentConditions{}, err
	}
	c.save(ctx, "current", lat, lon, current, c.currentTTL)
	return current, nil
}

func (c *CachedSource) FetchHistorical(ctx context.Context, lat, lon float64, yearsBack int) (map[domain.Variable]domain.HistoricalSeries, error) {
	kind := fmt.Sprintf("historical:%d", yearsBack)

	var historical map[domain.Variable]domain.HistoricalSeries
	hit, err := c.lookup(ctx, kind, lat, lon, &historical)
	if err != nil {
		c.logger.Warn("cache lookup failed, fetching upstream", "kind", kind, "error", err)
	}
	if hit {
		return historical, nil
	}

	historical, err = c.inner.FetchHistorical(ctx, lat, lon, yearsBack)
	if err != nil {
		return nil, err
	}
	c.save(ctx, kind, lat, lon, historical, c.historicalTTL)
	return historical, nil
}

// lookup reads and decodes a cached payload into out, reporting a hit.
func (c *CachedSource) lookup(ctx context.Context, kind string, lat, lon float64, out any) (bool, error) {
	payload, ok, err := c.store.Get(ctx, kind, roundCoord(lat), roundCoord(lon))
	if err != nil {
		c.metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
		return false, err
	}
	if !ok {
		c.metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
		return false, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		c.metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
		return false, fmt.Errorf("decode cached payload: %w", err)
	}
	c.metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
	return true, nil
}

// save writes an upstream payload to the store; failures are logged, not fatal.
func (c *CachedSource) save(ctx context.Context, kind string, lat, lon float64, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "kind", kind, "error", err)
		return
	}
	if err := c.store.Put(ctx, kind, roundCoord(lat), roundCoord(lon), payload, ttl); err != nil {
		c.logger.Warn("cache write failed", "kind", kind, "error", err)
	}
}

// roundCoord snaps a coordinate to two decimal places, roughly 1.1 km, so
// nearby lookups share cache rows.
func roundCoord(v float64) float64 {
	return math.Round(v*100) / 100
}
