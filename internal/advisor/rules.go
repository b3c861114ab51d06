// README: Deterministic rule-based advisor.
package advisor

import (
	"context"
	"strings"

	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
)

const (
	heavyLoadFactor = 0.8
	shortLegKm      = 30.0
)

const (
	TipWeather    = "Adverse weather expected on the route: reduce speed and keep a longer following distance."
	TipAirQuality = "Poor air quality along the route: recirculate cabin air and avoid idling."
	TipHeavyLoad  = "Vehicle is loaded above 80% of capacity: consider splitting the load across vehicles."
	TipShortLegs  = "Diesel on short urban legs: consider a hybrid or electric vehicle for this trip."
	TipGeneric    = "Accelerate smoothly and hold a steady speed to keep fuel use and emissions low."
)

type RuleBased struct{}

func (RuleBased) Advise(_ context.Context, v vehicle.Vehicle, summaries []routing.Summary) ([]string, error) {
	var weatherAlert, airAlert bool
	shortLegs := len(summaries) > 0
	for _, s := range summaries {
		weatherAlert = weatherAlert || s.WeatherAlerts
		airAlert = airAlert || s.AirQualityAlerts
		if s.TotalDistanceKm >= shortLegKm {
			shortLegs = false
		}
	}

	var tips []string
	if weatherAlert {
		tips = append(tips, TipWeather)
	}
	if airAlert {
		tips = append(tips, TipAirQuality)
	}
	if v.LoadFactor() > heavyLoadFactor {
		tips = append(tips, TipHeavyLoad)
	}
	if shortLegs && strings.EqualFold(strings.TrimSpace(v.FuelType), "diesel") {
		tips = append(tips, TipShortLegs)
	}
	if len(tips) == 0 {
		tips = append(tips, TipGeneric)
	}
	return tips, nil
}
