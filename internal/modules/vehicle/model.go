// README: Vehicle profile used for emission and fuel cost calculations.
package vehicle

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ecoroute/internal/types"
)

var (
	ErrInvalidVehicle = errors.New("invalid vehicle profile")
	ErrNotFound       = errors.New("vehicle not found")
	ErrFileNotFound   = errors.New("vehicle data file not found")
	ErrInvalidFile    = errors.New("invalid JSON format in vehicle data file")
)

type Vehicle struct {
	ID             types.ID `json:"id"`
	Type           string   `json:"type"`
	FuelType       string   `json:"fuel_type"`
	FuelEfficiency float64  `json:"fuel_efficiency"` // km/L
	CargoCapacity  float64  `json:"cargo_capacity"`  // kg
	CurrentLoad    float64  `json:"current_load"`    // kg

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (v Vehicle) Validate() error {
	switch {
	case v.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidVehicle)
	case v.FuelType == "":
		return fmt.Errorf("%w: missing fuel_type", ErrInvalidVehicle)
	case !finite(v.CargoCapacity) || v.CargoCapacity <= 0:
		return fmt.Errorf("%w: cargo_capacity must be positive", ErrInvalidVehicle)
	case !finite(v.CurrentLoad) || v.CurrentLoad < 0:
		return fmt.Errorf("%w: current_load must not be negative", ErrInvalidVehicle)
	case v.CurrentLoad > v.CargoCapacity:
		return fmt.Errorf("%w: current_load %.1f exceeds cargo_capacity %.1f", ErrInvalidVehicle, v.CurrentLoad, v.CargoCapacity)
	case !finite(v.FuelEfficiency) || v.FuelEfficiency < 0:
		return fmt.Errorf("%w: fuel_efficiency must not be negative", ErrInvalidVehicle)
	}
	return nil
}

// LoadFactor is the share of cargo capacity in use, in [0, 1] for a valid vehicle.
func (v Vehicle) LoadFactor() float64 {
	if v.CargoCapacity <= 0 {
		return 0
	}
	return v.CurrentLoad / v.CargoCapacity
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
