package domain

// Variable identifies one tracked weather measurement.
type Variable string

const (
	Temperature   Variable = "temperature"
	Humidity      Variable = "humidity"
	Precipitation Variable = "precipitation"
	WindSpeed     Variable = "wind_speed"
)

// apiFields maps each variable to its Open-Meteo field name. The same field
// names are valid on both the forecast and the ERA5 archive endpoints.
var apiFields = map[Variable]string{
	Temperature:   "temperature_2m",
	Humidity:      "relative_humidity_2m",
	Precipitation: "precipitation",
	WindSpeed:     "wind_speed_10m",
}

// Variables returns the tracked variables in display order.
func Variables() []Variable {
	return []Variable{Temperature, Humidity, Precipitation, WindSpeed}
}

// APIField returns the Open-Meteo field name for the variable, or "" for an
// unknown variable.
func (v Variable) APIField() string {
	return apiFields[v]
}

// Unit returns the measurement unit Open-Meteo reports for the variable.
func (v Variable) Unit() string {
	switch v {
	case Temperature:
		return "°C"
	case Humidity:
		return "%"
	case Precipitation:
		return "mm"
	case WindSpeed:
		return "km/h"
	default:
		return ""
	}
}
