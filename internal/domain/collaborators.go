package domain

import (
	"context"
	"time"
)

// Geocoder resolves a place name to coordinates. The boolean is false when
// the place is unknown, which is not an error.
type Geocoder interface {
	Search(ctx context.Context, name string) (Place, bool, error)
}

// WeatherSource supplies the two data feeds an analysis consumes: a live
// observation and a multi-year hourly history.
type WeatherSource interface {
	FetchCurrent(ctx context.Context, lat, lon float64) (CurrentConditions, error)
	FetchHistorical(ctx context.Context, lat, lon float64, years int) (map[Variable]HistoricalSeries, error)
}

// AnomalyPublisher receives the anomalous results of an analysis run.
type AnomalyPublisher interface {
	PublishAnomalies(ctx context.Context, place Place, ref time.Time, report Report) error
}
