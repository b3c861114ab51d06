// README: Traffic-aware route summaries returned by routing providers.
package traffic

import (
	"errors"
	"time"

	"ecoroute/internal/types"
)

var ErrNoRoute = errors.New("no route found")

// Summary uses the provider's native units.
type Summary struct {
	LengthInMeters        int `json:"lengthInMeters"`
	TravelTimeInSeconds   int `json:"travelTimeInSeconds"`
	TrafficDelayInSeconds int `json:"trafficDelayInSeconds"`
}

func (s Summary) DistanceKm() float64      { return float64(s.LengthInMeters) / 1000 }
func (s Summary) DurationMinutes() float64 { return float64(s.TravelTimeInSeconds) / 60 }
func (s Summary) DelayMinutes() float64    { return float64(s.TrafficDelayInSeconds) / 60 }

type Request struct {
	From types.Location
	To   types.Location
	// DepartAt zero means now.
	DepartAt time.Time
	// MaxAlternatives asks for up to this many routes besides the preferred one.
	MaxAlternatives int
}

// SimulatedSummary is served whenever the live provider is unavailable.
func SimulatedSummary() Summary {
	return Summary{
		LengthInMeters:        50000,
		TravelTimeInSeconds:   3600,
		TrafficDelayInSeconds: 300,
	}
}
