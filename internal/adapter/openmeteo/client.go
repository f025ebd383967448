// Package openmeteo implements the geocoding and weather-feed collaborators
// against the free Open-Meteo APIs: the forecast endpoint for current
// conditions, the ERA5 archive endpoint for historical hourly data, and the
// geocoding endpoint for place resolution. None of them require an API key.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/climate-anomaly-service/internal/config"
	"github.com/couchcryptid/climate-anomaly-service/internal/domain"
	"github.com/couchcryptid/climate-anomaly-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// timeLayout is the timestamp format Open-Meteo uses with timezone=auto:
// local wall-clock time without a zone suffix.
const timeLayout = "2006-01-02T15:04"

// hourlyFields is the comma-joined field list requested from both the
// forecast and archive endpoints.
var hourlyFields = strings.Join([]string{
	domain.Temperature.APIField(),
	domain.Humidity.APIField(),
	domain.Precipitation.APIField(),
	domain.WindSpeed.APIField(),
}, ",")

// Client implements domain.Geocoder and domain.WeatherSource using the
// Open-Meteo APIs.
type Client struct {
	httpClient    *http.Client
	archiveClient *http.Client // bulk history needs a longer timeout
	forecastURL   string
	archiveURL    string
	geocodeURL    string
	clock         clockwork.Clock
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates an Open-Meteo client. The clock supplies "today" for the
// archive date range.
func NewClient(cfg *config.Config, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.OpenMeteoTimeout},
		archiveClient: &http.Client{Timeout: cfg.ArchiveTimeout},
		forecastURL:   "https://api.open-meteo.com/v1/forecast",
		archiveURL:    "https://archive-api.open-meteo.com/v1/era5",
		geocodeURL:    "https://geocoding-api.open-meteo.com/v1/search",
		clock:         clock,
		metrics:       metrics,
		logger:        logger,
	}
}

// Search resolves a place name via the Open-Meteo geocoding API. The boolean
// is false when no match exists.
func (c *Client) Search(ctx context.Context, name string) (domain.Place, bool, error) {
	params := url.Values{
		"name":     {name},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}

	var resp geocodeResponse
	if err := c.getJSON(ctx, c.httpClient, "geocode", c.geocodeURL+"?"+params.Encode(), &resp); err != nil {
		return domain.Place{}, false, err
	}

	if len(resp.Results) == 0 {
		c.logger.Debug("geocode returned no results", "name", name)
		return domain.Place{}, false, nil
	}

	r := resp.Results[0]
	return domain.Place{
		Name:      r.Name,
		Admin1:    r.Admin1,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}, true, nil
}

// FetchCurrent fetches the live readings for a coordinate from the forecast API.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error) {
	params := url.Values{
		"latitude":  {fmt.Sprintf("%.4f", lat)},
		"longitude": {fmt.Sprintf("%.4f", lon)},
		"current":   {hourlyFields},
		"timezone":  {"auto"},
	}

	var resp currentResponse
	if err := c.getJSON(ctx, c.httpClient, "current", c.forecastURL+"?"+params.Encode(), &resp); err != nil {
		return domain.CurrentConditions{}, err
	}

	if resp.Current.Time == "" {
		return domain.CurrentConditions{}, fmt.Errorf("forecast response has no current block")
	}

	observedAt, err := time.Parse(timeLayout, resp.Current.Time)
	if err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("parse observation time %q: %w", resp.Current.Time, err)
	}

	values := make(map[domain.Variable]float64, 4)
	putValue(values, domain.Temperature, resp.Current.Temperature)
	putValue(values, domain.Humidity, resp.Current.Humidity)
	putValue(values, domain.Precipitation, resp.Current.Precipitation)
	putValue(values, domain.WindSpeed, resp.Current.WindSpeed)

	return domain.CurrentConditions{Values: values, ObservedAt: observedAt}, nil
}

// FetchHistorical fetches up to yearsBack years of hourly ERA5 reanalysis
// data for a coordinate. JSON nulls become missing samples, never zeros.
func (c *Client) FetchHistorical(ctx context.Context, lat, lon float64, yearsBack int) (map[domain.Variable]domain.HistoricalSeries, error) {
	end := c.clock.Now()
	start := end.AddDate(-yearsBack, 0, 0)

	params := url.Values{
		"latitude":   {fmt.Sprintf("%.4f", lat)},
		"longitude":  {fmt.Sprintf("%.4f", lon)},
		"start_date": {start.Format("2006-01-02")},
		"end_date":   {end.Format("2006-01-02")},
		"hourly":     {hourlyFields},
		"timezone":   {"auto"},
	}

	var resp archiveResponse
	if err := c.getJSON(ctx, c.archiveClient, "historical", c.archiveURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	times := make([]time.Time, len(resp.Hourly.Time))
	for i, s := range resp.Hourly.Time {
		t, err := time.Parse(timeLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parse hourly timestamp %q: %w", s, err)
		}
		times[i] = t
	}

	return map[domain.Variable]domain.HistoricalSeries{
		domain.Temperature:   buildSeries(times, resp.Hourly.Temperature),
		domain.Humidity:      buildSeries(times, resp.Hourly.Humidity),
		domain.Precipitation: buildSeries(times, resp.Hourly.Precipitation),
		domain.WindSpeed:     buildSeries(times, resp.Hourly.WindSpeed),
	}, nil
}

// getJSON performs an instrumented GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, httpClient *http.Client, endpoint, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("open-meteo %s error: status %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func putValue(values map[domain.Variable]float64, v domain.Variable, reading *float64) {
	if reading != nil {
		values[v] = *reading
	}
}

// buildSeries pairs hourly timestamps with one variable's value column. Rows
// beyond the value column's length count as missing.
func buildSeries(times []time.Time, column []*float64) domain.HistoricalSeries {
	series := make(domain.HistoricalSeries, len(times))
	for i, t := range times {
		s := domain.Sample{Time: t}
		if i < len(column) {
			s.Value = column[i]
		}
		series[i] = s
	}
	return series
}

// Open-Meteo API response types.

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type currentResponse struct {
	Current struct {
		Time          string   `json:"time"`
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		Precipitation *float64 `json:"precipitation"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

type archiveResponse struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m"`
		Humidity      []*float64 `json:"relative_humidity_2m"`
		Precipitation []*float64 `json:"precipitation"`
		WindSpeed     []*float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}
