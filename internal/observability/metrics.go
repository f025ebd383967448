package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// anomaly analysis service.
type Metrics struct {
	AnalysisRequests *prometheus.CounterVec // labels: outcome={success,not_found,error}
	AnalysisDuration prometheus.Histogram
	AnomaliesFound   *prometheus.CounterVec // labels: variable, severity

	// Open-Meteo client metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={geocode,current,historical}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	// Cache metrics.
	CacheLookups *prometheus.CounterVec // labels: kind={current,historical:N}, result={hit,miss,error}
	GeocodeCache *prometheus.CounterVec // labels: result={hit,miss}

	// Kafka publishing metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_anomaly",
			Name:      "analysis_requests_total",
			Help:      "Analysis runs by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_anomaly",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete geocode-fetch-score run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AnomaliesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_anomaly",
			Name:      "anomalies_found_total",
			Help:      "Anomalous readings by variable and severity.",
		}, []string{"variable", "severity"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_anomaly",
			Name:      "upstream_requests_total",
			Help:      "Open-Meteo API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climate_anomaly",
			Name:      "upstream_request_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_anomaly",
			Name:      "cache_lookups_total",
			Help:      "Weather payload cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_anomaly",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_anomaly",
			Name:      "events_published_total",
			Help:      "Anomaly events written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_anomaly",
			Name:      "publish_errors_total",
			Help:      "Failed anomaly event publishes.",
		}),
	}

	prometheus.MustRegister(
		m.AnalysisRequests,
		m.AnalysisDuration,
		m.AnomaliesFound,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.GeocodeCache,
		m.EventsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AnalysisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_anomaly", Name: "analysis_requests_total"}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_anomaly", Name: "analysis_duration_seconds"}),
		AnomaliesFound:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_anomaly", Name: "anomalies_found_total"}, []string{"variable", "severity"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_anomaly", Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "climate_anomaly", Name: "upstream_request_duration_seconds"}, []string{"endpoint"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_anomaly", Name: "cache_lookups_total"}, []string{"kind", "result"}),
		GeocodeCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_anomaly", Name: "geocode_cache_total"}, []string{"result"}),
		EventsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_anomaly", Name: "events_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_anomaly", Name: "publish_errors_total"}),
	}
}
