// README: Weather and air-quality conditions at a route location.
package weather

type Weather struct {
	Precipitation float64 `json:"precipitation"` // mm
	WindSpeed     float64 `json:"wind_speed"`    // km/h
	Temperature   float64 `json:"temperature"`   // °C
}

type Air struct {
	AQI float64 `json:"aqi"`
}

type Conditions struct {
	Weather Weather `json:"weather"`
	Air     Air     `json:"air"`
}

// SimulatedConditions are served whenever the live provider is unavailable.
func SimulatedConditions() Conditions {
	return Conditions{
		Weather: Weather{Precipitation: 0, WindSpeed: 10, Temperature: 25},
		Air:     Air{AQI: 50},
	}
}
