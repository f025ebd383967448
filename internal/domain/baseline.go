package domain

import "time"

// SelectBaseline picks the subset of a historical series that shares the
// reference instant's seasonal context, returning the non-missing values.
// Match tiers, in order of preference:
//
//  1. same calendar month and same hour of day
//  2. same calendar month, any hour
//  3. the entire series
//
// The first tier yielding at least one non-missing value wins. The fallback
// keeps a freshly-covered location functional when the exact month/hour
// bucket is still sparse. Returns nil when the series is empty or every
// selected entry is missing.
func SelectBaseline(series HistoricalSeries, ref time.Time) []float64 {
	month := ref.Month()
	hour := ref.Hour()

	tiers := []func(Sample) bool{
		func(s Sample) bool { return s.Time.Month() == month && s.Time.Hour() == hour },
		func(s Sample) bool { return s.Time.Month() == month },
		func(Sample) bool { return true },
	}

	for _, match := range tiers {
		if values := collectMatching(series, match); len(values) > 0 {
			return values
		}
	}
	return nil
}

// collectMatching gathers the non-missing values of samples accepted by match.
func collectMatching(series HistoricalSeries, match func(Sample) bool) []float64 {
	var values []float64
	for _, s := range series {
		if s.Value == nil || !match(s) {
			continue
		}
		values = append(values, *s.Value)
	}
	return values
}
