// README: Route and segment model produced by the optimizer.
package routing

import (
	"errors"

	"ecoroute/internal/types"
	"ecoroute/internal/weather"
)

var (
	ErrTooManyWaypoints = errors.New("too many waypoints")
	ErrUnknownStrategy  = errors.New("unknown optimization strategy")
	ErrUnknownPriority  = errors.New("unknown optimization priority")
)

const (
	DefaultMaxWaypoints   = 25
	DefaultLegConcurrency = 4
)

type Segment struct {
	Start        types.Location `json:"start"`
	End          types.Location `json:"end"`
	Distance     float64        `json:"distance"`      // km
	Duration     float64        `json:"duration"`      // minutes
	TrafficDelay float64        `json:"traffic_delay"` // minutes
	Emissions    float64        `json:"emissions"`     // kg CO2
}

type Route struct {
	Segments       []Segment       `json:"segments"`
	TotalDistance  float64         `json:"total_distance"`
	TotalDuration  float64         `json:"total_duration"`
	TotalEmissions float64         `json:"total_emissions"`
	FuelCost       float64         `json:"fuel_cost"`
	Weather        weather.Weather `json:"weather"`
	Air            weather.Air     `json:"air"`
}

// Options bound a single optimization call.
type Options struct {
	MaxWaypoints   int
	LegConcurrency int
}

func (o Options) withDefaults() Options {
	if o.MaxWaypoints <= 0 {
		o.MaxWaypoints = DefaultMaxWaypoints
	}
	if o.LegConcurrency <= 0 {
		o.LegConcurrency = DefaultLegConcurrency
	}
	return o
}
