// Package service orchestrates a full analysis run: resolve the place, fetch
// the live and historical feeds, score every variable, and hand anomalies to
// the optional publisher.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-anomaly-service/internal/domain"
	"github.com/couchcryptid/climate-anomaly-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ErrPlaceNotFound reports that geocoding produced no match for the requested
// place name.
var ErrPlaceNotFound = errors.New("place not found")

// Pinger checks that a backing dependency is reachable.
type Pinger interface {
	CheckReadiness(ctx context.Context) error
}

// Deps collects the service's collaborators. Publisher and Readiness are
// optional.
type Deps struct {
	Geocoder  domain.Geocoder
	Source    domain.WeatherSource
	Publisher domain.AnomalyPublisher
	Readiness Pinger
	Clock     clockwork.Clock
	Logger    *slog.Logger
	Metrics   *observability.Metrics

	HistoryYears int
	Threshold    float64
}

// Service runs anomaly analyses for named places.
type Service struct {
	deps Deps
}

// New creates the analysis service.
func New(deps Deps) *Service {
	return &Service{deps: deps}
}

// Analysis is the complete result of one analysis run.
type Analysis struct {
	Place         domain.Place  `json:"place"`
	ReferenceTime time.Time     `json:"reference_time"`
	BaselineYears int           `json:"baseline_years"`
	Threshold     float64       `json:"threshold"`
	Results       domain.Report `json:"results"`
}

// AnalyzeLocation resolves placeName, fetches both feeds, and scores every
// variable present in both. A threshold of zero or less selects the
// configured default. Publishing failures are logged but never fail the run.
func (s *Service) AnalyzeLocation(ctx context.Context, placeName string, threshold float64) (Analysis, error) {
	start := time.Now()
	analysis, err := s.analyze(ctx, placeName, threshold)
	s.deps.Metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrPlaceNotFound):
		s.deps.Metrics.AnalysisRequests.WithLabelValues("not_found").Inc()
	case err != nil:
		s.deps.Metrics.AnalysisRequests.WithLabelValues("error").Inc()
	default:
		s.deps.Metrics.AnalysisRequests.WithLabelValues("success").Inc()
	}
	return analysis, err
}

func (s *Service) analyze(ctx context.Context, placeName string, threshold float64) (Analysis, error) {
	if threshold <= 0 {
		threshold = s.deps.Threshold
	}

	place, found, err := s.deps.Geocoder.Search(ctx, placeName)
	if err != nil {
		return Analysis{}, fmt.Errorf("geocode %q: %w", placeName, err)
	}
	if !found {
		return Analysis{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, placeName)
	}

	current, err := s.deps.Source.FetchCurrent(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return Analysis{}, fmt.Errorf("fetch current conditions: %w", err)
	}

	historical, err := s.deps.Source.FetchHistorical(ctx, place.Latitude, place.Longitude, s.deps.HistoryYears)
	if err != nil {
		return Analysis{}, fmt.Errorf("fetch historical series: %w", err)
	}

	// Score against the observation's own wall-clock instant so the seasonal
	// baseline matches the reading, falling back to now when the feed omits it.
	ref := current.ObservedAt
	if ref.IsZero() {
		ref = s.deps.Clock.Now()
	}

	report := domain.Analyze(current.Values, historical, ref, threshold)

	anomalous := report.AnomalousVariables()
	for _, v := range anomalous {
		s.deps.Metrics.AnomaliesFound.WithLabelValues(string(v), string(report[v].Severity)).Inc()
	}

	s.deps.Logger.Info("analysis complete",
		"place", place.Name,
		"country", place.Country,
		"variables", len(report),
		"anomalies", len(anomalous),
	)

	s.publish(ctx, place, ref, report)

	return Analysis{
		Place:         place,
		ReferenceTime: ref,
		BaselineYears: s.deps.HistoryYears,
		Threshold:     threshold,
		Results:       report,
	}, nil
}

// publish hands anomalies to the sink on a best effort basis.
func (s *Service) publish(ctx context.Context, place domain.Place, ref time.Time, report domain.Report) {
	if s.deps.Publisher == nil || len(report.AnomalousVariables()) == 0 {
		return
	}
	if err := s.deps.Publisher.PublishAnomalies(ctx, place, ref, report); err != nil {
		s.deps.Metrics.PublishErrors.Inc()
		s.deps.Logger.Error("publish anomalies failed", "place", place.Name, "error", err)
		return
	}
	s.deps.Metrics.EventsPublished.Inc()
}

// CheckReadiness delegates to the configured readiness pinger, if any.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.deps.Readiness == nil {
		return nil
	}
	return s.deps.Readiness.CheckReadiness(ctx)
}
