package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func januarySeries(values ...float64) HistoricalSeries {
	series := make(HistoricalSeries, len(values))
	for i, v := range values {
		series[i] = Sample{
			Time:  time.Date(2020, time.January, 1+i%28, 14, 0, 0, 0, time.UTC),
			Value: fv(v),
		}
	}
	return series
}

func TestAnalyze_ScoresIntersectionOfInputs(t *testing.T) {
	ref := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC)

	current := map[Variable]float64{
		Temperature: 30.0,
		Humidity:    55.0,
		WindSpeed:   12.0, // absent from historical → skipped
	}
	historical := map[Variable]HistoricalSeries{
		Temperature:   januarySeries(15, 20, 25),
		Humidity:      januarySeries(50, 52, 54, 56, 58),
		Precipitation: januarySeries(0, 0, 1), // absent from current → skipped
	}

	report := Analyze(current, historical, ref, DefaultThreshold)

	require.Len(t, report, 2)
	assert.Contains(t, report, Temperature)
	assert.Contains(t, report, Humidity)
	assert.NotContains(t, report, WindSpeed)
	assert.NotContains(t, report, Precipitation)

	temp := report[Temperature]
	assert.Equal(t, 2.0, temp.ZScore)
	assert.Equal(t, SeverityModerate, temp.Severity)
}

func TestAnalyze_EmptyHistoricalYieldsEmptyReport(t *testing.T) {
	ref := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	report := Analyze(
		map[Variable]float64{Temperature: 21.5},
		map[Variable]HistoricalSeries{},
		ref,
		DefaultThreshold,
	)

	assert.Empty(t, report)
}

func TestAnalyze_EmptySeriesYieldsDegenerateResult(t *testing.T) {
	ref := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	report := Analyze(
		map[Variable]float64{Precipitation: 4.2},
		map[Variable]HistoricalSeries{Precipitation: {}},
		ref,
		DefaultThreshold,
	)

	require.Contains(t, report, Precipitation)
	result := report[Precipitation]
	assert.Equal(t, 4.2, result.Current)
	assert.Zero(t, result.Mean)
	assert.Zero(t, result.StdDev)
	assert.Zero(t, result.ZScore)
	assert.False(t, result.IsAnomaly)
	assert.Equal(t, SeverityNormal, result.Severity)
}

func TestAnalyze_Idempotent(t *testing.T) {
	ref := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC)

	current := map[Variable]float64{
		Temperature: 30.0,
		Humidity:    61.0,
	}
	historical := map[Variable]HistoricalSeries{
		Temperature: januarySeries(15, 20, 25, 18, 22),
		Humidity:    januarySeries(50, 52, 54, 56, 58, 60),
	}

	first := Analyze(current, historical, ref, DefaultThreshold)
	second := Analyze(current, historical, ref, DefaultThreshold)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reports differ across identical runs (-first +second):\n%s", diff)
	}
}

func TestReport_AnomalousVariables(t *testing.T) {
	report := Report{
		Temperature: AnomalyResult{IsAnomaly: true, Severity: SeverityExtreme},
		Humidity:    AnomalyResult{Severity: SeverityNormal},
		WindSpeed:   AnomalyResult{IsAnomaly: true, Severity: SeverityModerate},
	}

	assert.Equal(t, []Variable{Temperature, WindSpeed}, report.AnomalousVariables())
}

func TestVariable_APIField(t *testing.T) {
	tests := []struct {
		variable Variable
		field    string
	}{
		{Temperature, "temperature_2m"},
		{Humidity, "relative_humidity_2m"},
		{Precipitation, "precipitation"},
		{WindSpeed, "wind_speed_10m"},
		{Variable("pressure"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.variable), func(t *testing.T) {
			assert.Equal(t, tt.field, tt.variable.APIField())
		})
	}
}
