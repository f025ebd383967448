package domain

import "time"

// Sample is one hourly reading in a historical series. A nil Value marks a
// missing reading; missing readings are dropped during baseline selection,
// never treated as zero.
type Sample struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// HistoricalSeries is an ordered-by-time sequence of hourly samples for one
// variable, spanning up to ten years. The engine treats it as a read-only
// snapshot for the duration of one Analyze call.
type HistoricalSeries []Sample

// Place is a geocoded location.
type Place struct {
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentConditions holds one live reading per tracked variable plus the
// instant the readings were taken.
type CurrentConditions struct {
	Values     map[Variable]float64 `json:"values"`
	ObservedAt time.Time            `json:"observed_at"`
}
