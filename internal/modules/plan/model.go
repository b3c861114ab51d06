// README: Plan records one optimization run for a vehicle.
package plan

import (
	"errors"
	"time"

	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

var (
	ErrNotFound    = errors.New("plan not found")
	ErrInvalidPlan = errors.New("invalid plan request")
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Plan struct {
	ID                types.ID          `json:"id"`
	VehicleID         types.ID          `json:"vehicle_id"`
	Strategy          string            `json:"strategy"`
	Start             types.Location    `json:"start"`
	Destinations      []types.Location  `json:"destinations"`
	Routes            []routing.Route   `json:"routes"`
	Summaries         []routing.Summary `json:"summaries"`
	TotalDistanceKm   float64           `json:"total_distance_km"`
	TotalDurationMins float64           `json:"total_duration_mins"`
	TotalEmissionsKg  float64           `json:"total_emissions_kg"`
	Advice            []string          `json:"advice"`
	CreatedAt         time.Time         `json:"created_at"`
}

// CreateCommand takes either a registered VehicleID or an inline Vehicle.
type CreateCommand struct {
	VehicleID    types.ID
	Vehicle      *vehicle.Vehicle
	Start        types.Location
	Destinations []types.Location
	Strategy     string
}
