// README: Per-route summary with weather and air-quality alerts.
package routing

const (
	heavyPrecipitationMm = 10.0
	strongWindKmh        = 30.0
	unhealthyAQI         = 100.0
)

type Summary struct {
	TotalDistanceKm   float64 `json:"total_distance_km"`
	TotalDurationMins float64 `json:"total_duration_mins"`
	TotalEmissionsKg  float64 `json:"total_emissions_kg"`
	WeatherAlerts     bool    `json:"weather_alerts"`
	AirQualityAlerts  bool    `json:"air_quality_alerts"`
}

// Summarize never fails; a nil route yields the zero summary.
func Summarize(r *Route) Summary {
	if r == nil {
		return Summary{}
	}
	return Summary{
		TotalDistanceKm:   r.TotalDistance,
		TotalDurationMins: r.TotalDuration,
		TotalEmissionsKg:  r.TotalEmissions,
		WeatherAlerts:     r.Weather.Precipitation > heavyPrecipitationMm || r.Weather.WindSpeed > strongWindKmh,
		AirQualityAlerts:  r.Air.AQI > unhealthyAQI,
	}
}

func SummarizeAll(routes []Route) []Summary {
	out := make([]Summary, len(routes))
	for i := range routes {
		out[i] = Summarize(&routes[i])
	}
	return out
}
