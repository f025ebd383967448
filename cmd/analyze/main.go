// Command analyze runs a one-shot anomaly analysis for a place and prints the
// report to stdout. It talks straight to the Open-Meteo APIs without the
// response cache or Kafka sink.
//
// Usage:
//
//	go run ./cmd/analyze -place "Portland" [-years 10] [-threshold 2.0]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/climate-anomaly-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/climate-anomaly-service/internal/config"
	"github.com/couchcryptid/climate-anomaly-service/internal/domain"
	"github.com/couchcryptid/climate-anomaly-service/internal/observability"
	"github.com/couchcryptid/climate-anomaly-service/internal/service"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	place := flag.String("place", "", "place name to analyze")
	years := flag.Int("years", 0, "years of history for the baseline (default from HISTORY_YEARS)")
	threshold := flag.Float64("threshold", 0, "z-score anomaly threshold (default from ANOMALY_THRESHOLD)")
	flag.Parse()

	if *place == "" {
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *years > 0 {
		cfg.HistoryYears = *years
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting() // one-shot run, nothing scrapes these
	clock := clockwork.NewRealClock()

	client := openmeteo.NewClient(cfg, clock, metrics, logger)

	svc := service.New(service.Deps{
		Geocoder:     client,
		Source:       client,
		Clock:        clock,
		Logger:       logger,
		Metrics:      metrics,
		HistoryYears: cfg.HistoryYears,
		Threshold:    cfg.AnomalyThreshold,
	})

	analysis, err := svc.AnalyzeLocation(context.Background(), *place, *threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	printReport(analysis)
}

func printReport(a service.Analysis) {
	location := a.Place.Name
	if a.Place.Admin1 != "" {
		location += ", " + a.Place.Admin1
	}
	if a.Place.Country != "" {
		location += ", " + a.Place.Country
	}

	fmt.Printf("Location:  %s (%.4f, %.4f)\n", location, a.Place.Latitude, a.Place.Longitude)
	fmt.Printf("Reference: %s\n", a.ReferenceTime.Format("2006-01-02 15:04"))
	fmt.Printf("Baseline:  %d years, threshold %.1f\n\n", a.BaselineYears, a.Threshold)

	fmt.Printf("%-14s %10s %10s %10s %8s  %s\n", "VARIABLE", "CURRENT", "MEAN", "STDDEV", "Z", "SEVERITY")
	for _, v := range domain.Variables() {
		r, ok := a.Results[v]
		if !ok {
			fmt.Printf("%-14s %10s\n", v, "n/a")
			continue
		}
		marker := ""
		if r.IsAnomaly {
			marker = "  <-- anomaly"
		}
		fmt.Printf("%-14s %10.2f %10.2f %10.2f %8.2f  %s%s\n",
			v, r.Current, r.Mean, r.StdDev, r.ZScore, r.Severity, marker)
	}

	if anomalous := a.Results.AnomalousVariables(); len(anomalous) > 0 {
		fmt.Printf("\n%d anomalous variable(s) detected\n", len(anomalous))
	} else {
		fmt.Printf("\nAll variables within normal range\n")
	}
}
