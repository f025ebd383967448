package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_EmptyBaseline(t *testing.T) {
	result := Score(42.0, nil, DefaultThreshold)

	assert.Equal(t, 42.0, result.Current)
	assert.Zero(t, result.Mean)
	assert.Zero(t, result.StdDev)
	assert.Zero(t, result.ZScore)
	assert.False(t, result.IsAnomaly)
	assert.Equal(t, SeverityNormal, result.Severity)
}

func TestScore_ConstantBaseline(t *testing.T) {
	// One fully-populated month/hour bucket of identical readings.
	baseline := make([]float64, 50)
	for i := range baseline {
		baseline[i] = 10.0
	}

	result := Score(15.0, baseline, DefaultThreshold)

	assert.Equal(t, 10.0, result.Mean)
	assert.Zero(t, result.StdDev)
	assert.Zero(t, result.ZScore)
	assert.False(t, result.IsAnomaly)
	assert.Equal(t, SeverityNormal, result.Severity)
}

func TestScore_SingleValueBaseline(t *testing.T) {
	result := Score(99.0, []float64{10.0}, DefaultThreshold)

	assert.Equal(t, 10.0, result.Mean)
	assert.Zero(t, result.StdDev)
	assert.Zero(t, result.ZScore)
	assert.False(t, result.IsAnomaly)
}

func TestScore_ModerateBoundaryInclusive(t *testing.T) {
	// Baseline with mean 20 and sample standard deviation exactly 5
	// (sum of squared deviations 50, n−1 = 2): a current value of 30 lands
	// exactly on z=2.0, the inclusive Moderate edge.
	baseline := []float64{15, 20, 25}

	result := Score(30.0, baseline, DefaultThreshold)

	assert.Equal(t, 20.0, result.Mean)
	assert.Equal(t, 5.0, result.StdDev)
	assert.Equal(t, 2.0, result.ZScore)
	assert.True(t, result.IsAnomaly)
	assert.Equal(t, SeverityModerate, result.Severity)
}

func TestScore_SeverityTiers(t *testing.T) {
	// mean 0, sample std dev 1: z equals the current value directly.
	baseline := []float64{-1, 1, -1, 1, -1, 1, -1, 1, -1, 1}
	m := mean(baseline)
	sd := sampleStdDev(baseline, m)
	require.Zero(t, m)
	require.InDelta(t, 1.0540, sd, 1e-3)

	tests := []struct {
		name     string
		current  float64
		anomaly  bool
		severity Severity
	}{
		{"well inside normal", 0.5, false, SeverityNormal},
		{"just below threshold", 1.9 * sd, false, SeverityNormal},
		{"exactly threshold", 2.0 * sd, true, SeverityModerate},
		{"between tiers", 3.0 * sd, true, SeverityModerate},
		{"exactly double threshold", 4.0 * sd, true, SeverityExtreme},
		{"far beyond", 4.5 * sd, true, SeverityExtreme},
		{"negative extreme", -4.5 * sd, true, SeverityExtreme},
		{"negative moderate", -2.5 * sd, true, SeverityModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.current, baseline, DefaultThreshold)
			assert.Equal(t, tt.anomaly, result.IsAnomaly)
			assert.Equal(t, tt.severity, result.Severity)
		})
	}
}

func TestScore_ZScoreConsistentWithReturnedStats(t *testing.T) {
	baseline := []float64{12.1, 14.7, 9.3, 16.2, 11.8, 13.4, 10.9}

	result := Score(18.5, baseline, DefaultThreshold)

	require.NotZero(t, result.StdDev)
	recomputed := (result.Current - result.Mean) / result.StdDev
	assert.InDelta(t, recomputed, result.ZScore, 1e-12)
}

func TestScore_SeverityMonotonicInAbsZ(t *testing.T) {
	// For a fixed threshold, a larger |z| never classifies lower.
	baseline := []float64{-1, 1, -1, 1, -1, 1}
	sd := sampleStdDev(baseline, 0)

	rank := map[Severity]int{SeverityNormal: 0, SeverityModerate: 1, SeverityExtreme: 2}

	prev := -1
	for z := 0.0; z <= 6.0; z += 0.25 {
		result := Score(z*sd, baseline, DefaultThreshold)
		r := rank[result.Severity]
		assert.GreaterOrEqual(t, r, prev, "severity regressed at z=%v", z)
		prev = r
	}
}

func TestScore_CustomThreshold(t *testing.T) {
	baseline := []float64{-1, 1, -1, 1, -1, 1}
	sd := sampleStdDev(baseline, 0)

	result := Score(1.5*sd, baseline, 1.0)
	assert.True(t, result.IsAnomaly)
	assert.Equal(t, SeverityModerate, result.Severity)

	result = Score(2.5*sd, baseline, 1.0)
	assert.Equal(t, SeverityExtreme, result.Severity)
}

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"textbook", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2.13809},
		{"two values", []float64{1, 3}, math.Sqrt2},
		{"single value", []float64{5}, 0},
		{"constant", []float64{3, 3, 3, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleStdDev(tt.values, mean(tt.values))
			assert.InDelta(t, tt.expected, got, 1e-4)
		})
	}
}
