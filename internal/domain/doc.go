// Package domain implements the climate anomaly-scoring engine.
//
// # Data Source
//
// Historical readings come from ERA5 reanalysis data served by the Open-Meteo
// archive API (https://archive-api.open-meteo.com/v1/era5): hourly estimates
// blending observations and model output, fetched for up to ten years per
// location. Current conditions come from the Open-Meteo forecast API. Both
// feeds are supplied by the caller; this package performs no I/O.
//
// # Seasonal Baselines
//
// Weather is dominated by two periodicities: the annual cycle (month) and the
// diurnal cycle (hour of day). A raw ten-year series is therefore far from
// stationary, and a z-score against its global mean would flag every summer
// afternoon. [SelectBaseline] filters the history to readings sharing the
// reference instant's calendar month and hour of day, which isolates an
// approximately stationary distribution. Sparse histories fall back to
// coarser matches:
//
//	same month + same hour  →  same month, any hour  →  entire series
//
// Missing readings are dropped at every tier, never treated as zero.
//
// # Scoring Convention
//
// The standard deviation is the sample definition (divide by n−1). This is a
// pinned numeric contract: a population definition would shift z-scores for
// small baselines. Fewer than two baseline values yield a deviation of zero.
// A zero deviation always yields a zero z-score: a constant baseline cannot
// statistically distinguish any current value, so the null signal is the
// correct output, not an error.
//
// Severity is classified from |z| against a threshold (default 2.0):
//
//	|z| ≥ 2×threshold  →  Extreme  (anomalous)
//	|z| ≥ threshold    →  Moderate (anomalous)
//	otherwise          →  Normal
//
// Lower edges are inclusive, and the Extreme check runs before Moderate.
//
// Absent data is never an error here: empty series, zero variance, and
// variables missing from one input all degrade to well-defined results.
package domain
