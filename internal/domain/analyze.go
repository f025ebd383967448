package domain

import "time"

// Report maps each analyzed variable to its anomaly result. One report is
// assembled per analysis run; it carries no identity beyond that run.
type Report map[Variable]AnomalyResult

// Analyze scores every variable present in both input maps against its
// seasonally-matched baseline. Variables missing from either map are skipped
// silently: partial input is expected, not an error. An empty historical map
// yields an empty report. The reference instant drives baseline selection and
// must be supplied by the caller; the engine never reads a clock.
//
// Each variable is scored independently, so results do not depend on
// iteration order and identical inputs always produce an identical report.
func Analyze(current map[Variable]float64, historical map[Variable]HistoricalSeries, ref time.Time, threshold float64) Report {
	report := make(Report, len(current))
	for variable, value := range current {
		series, ok := historical[variable]
		if !ok {
			continue
		}
		report[variable] = Score(value, SelectBaseline(series, ref), threshold)
	}
	return report
}

// AnomalousVariables returns the variables flagged anomalous, in the fixed
// display order of Variables.
func (r Report) AnomalousVariables() []Variable {
	var out []Variable
	for _, v := range Variables() {
		if result, ok := r[v]; ok && result.IsAnomaly {
			out = append(out, v)
		}
	}
	return out
}
