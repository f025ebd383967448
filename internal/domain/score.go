package domain

import "math"

// Severity is the anomaly classification bucket for one scored variable.
type Severity string

const (
	SeverityNormal   Severity = "Normal"
	SeverityModerate Severity = "Moderate"
	SeverityExtreme  Severity = "Extreme"
)

// DefaultThreshold is the |z-score| at which a reading counts as anomalous.
const DefaultThreshold = 2.0

// AnomalyResult is the per-variable output of one scoring run.
type AnomalyResult struct {
	Current   float64  `json:"current"`
	Mean      float64  `json:"mean"`
	StdDev    float64  `json:"std_dev"`
	ZScore    float64  `json:"z_score"`
	IsAnomaly bool     `json:"is_anomaly"`
	Severity  Severity `json:"severity"`
}

// Score compares a current reading against a seasonal baseline. An empty
// baseline or one with zero variance yields the degenerate result (all zero
// statistics, Normal): absence of baseline signal is not itself an anomaly.
// Severity tiers have inclusive lower edges, and Extreme is checked before
// Moderate so a z-score on the 2×threshold boundary classifies as Extreme.
func Score(current float64, baseline []float64, threshold float64) AnomalyResult {
	result := AnomalyResult{Current: current, Severity: SeverityNormal}
	if len(baseline) == 0 {
		return result
	}

	result.Mean = mean(baseline)
	result.StdDev = sampleStdDev(baseline, result.Mean)
	if result.StdDev == 0 {
		return result
	}

	result.ZScore = (current - result.Mean) / result.StdDev

	switch abs := math.Abs(result.ZScore); {
	case abs >= 2*threshold:
		result.IsAnomaly = true
		result.Severity = SeverityExtreme
	case abs >= threshold:
		result.IsAnomaly = true
		result.Severity = SeverityModerate
	}
	return result
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the ddof=1 sample standard deviation. Fewer than two values
// have no defined sample variance and yield 0.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
