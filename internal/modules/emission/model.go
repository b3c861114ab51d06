// README: Emission factors and fuel prices per fuel type.
package emission

import "errors"

var (
	ErrNegativeDistance = errors.New("distance must be a non-negative number")
	ErrUnknownFuelType  = errors.New("unknown fuel type")
)

// Factors holds kg CO2 per km and fuel price per litre-equivalent, keyed by fuel type.
type Factors struct {
	Emissions map[string]float64 `yaml:"emission_factors"`
	Prices    map[string]float64 `yaml:"fuel_prices"`
}

// DefaultFactors mirrors the EPA-based truck table.
func DefaultFactors() Factors {
	return Factors{
		Emissions: map[string]float64{
			"diesel":   0.9,
			"electric": 0.0,
			"hybrid":   0.6,
		},
		Prices: map[string]float64{
			"diesel":   1.05,
			"hybrid":   1.10,
			"electric": 0.0,
		},
	}
}

const (
	rainMultiplier   = 1.1
	windMultiplier   = 1.15
	windThresholdKmh = 20.0
	loadPenalty      = 0.2
)

type Estimate struct {
	EmissionsKg float64 `json:"emissions_kg"`
	FuelCostUSD float64 `json:"fuel_cost_usd"`
}
