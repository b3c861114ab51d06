// README: Calculator computes CO2 emissions and fuel cost for a leg.
package emission

import (
	"fmt"
	"math"
	"strings"

	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/weather"
)

type Calculator struct {
	factors Factors
}

func NewCalculator(f Factors) *Calculator {
	if f.Emissions == nil || f.Prices == nil {
		d := DefaultFactors()
		if f.Emissions == nil {
			f.Emissions = d.Emissions
		}
		if f.Prices == nil {
			f.Prices = d.Prices
		}
	}
	return &Calculator{factors: f}
}

// Emissions returns kg CO2 for distanceKm, adjusted for weather and cargo load.
func (c *Calculator) Emissions(v vehicle.Vehicle, distanceKm float64, w weather.Conditions) (float64, error) {
	if err := checkDistance(distanceKm); err != nil {
		return 0, err
	}
	if err := v.Validate(); err != nil {
		return 0, err
	}
	factor, ok := c.factors.Emissions[fuelKey(v.FuelType)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFuelType, v.FuelType)
	}

	base := distanceKm * factor
	return base * WeatherMultiplier(w) * LoadMultiplier(v), nil
}

// FuelCost is distance / efficiency × price; zero efficiency means no liquid fuel.
func (c *Calculator) FuelCost(v vehicle.Vehicle, distanceKm float64) (float64, error) {
	if err := checkDistance(distanceKm); err != nil {
		return 0, err
	}
	if err := v.Validate(); err != nil {
		return 0, err
	}
	price, ok := c.factors.Prices[fuelKey(v.FuelType)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFuelType, v.FuelType)
	}
	if v.FuelEfficiency == 0 {
		return 0, nil
	}
	return distanceKm / v.FuelEfficiency * price, nil
}

func (c *Calculator) Estimate(v vehicle.Vehicle, distanceKm float64, w weather.Conditions) (Estimate, error) {
	kg, err := c.Emissions(v, distanceKm, w)
	if err != nil {
		return Estimate{}, err
	}
	cost, err := c.FuelCost(v, distanceKm)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{EmissionsKg: kg, FuelCostUSD: cost}, nil
}

func WeatherMultiplier(w weather.Conditions) float64 {
	m := 1.0
	if w.Weather.Precipitation > 0 {
		m *= rainMultiplier
	}
	if w.Weather.WindSpeed > windThresholdKmh {
		m *= windMultiplier
	}
	return m
}

func LoadMultiplier(v vehicle.Vehicle) float64 {
	return 1 + v.LoadFactor()*loadPenalty
}

func checkDistance(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeDistance, d)
	}
	return nil
}

func fuelKey(fuel string) string {
	return strings.ToLower(strings.TrimSpace(fuel))
}
