// README: Trip optimization ranks alternative origin-to-destination routes by an optimization priority.
package routing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

const (
	PriorityEmissions = "emissions"
	PriorityTime      = "time"
	PriorityDistance  = "distance"
	PriorityCost      = "cost"
	PriorityBalanced  = "balanced"

	tripAlternatives = 2 // plus the preferred route
)

type TripRequest struct {
	Vehicle     vehicle.Vehicle
	Origin      types.Location
	Destination types.Location
	Waypoints   []types.Location
	Priority    string
	DepartAt    time.Time
}

type TripRoute struct {
	DistanceKm          float64          `json:"distance_km"`
	DurationMinutes     float64          `json:"duration_minutes"`
	TrafficDelayMinutes float64          `json:"traffic_delay_minutes"`
	EmissionsKg         float64          `json:"estimated_emissions_kg"`
	FuelCostUSD         float64          `json:"fuel_cost_usd"`
	Waypoints           []types.Location `json:"waypoints"`
}

type Impact struct {
	BaselineEmissionsKg float64 `json:"baseline_emissions_kg"`
	CO2SavedKg          float64 `json:"co2_saved_kg"`
	SavedPercent        float64 `json:"saved_percent"`
	AQI                 float64 `json:"air_quality_index"`
	WeatherAlerts       bool    `json:"weather_alerts"`
	AirQualityAlerts    bool    `json:"air_quality_alerts"`
}

type TripResult struct {
	Priority     string      `json:"optimization_priority"`
	Recommended  TripRoute   `json:"recommended_route"`
	Alternatives []TripRoute `json:"alternative_routes"`
	Impact       Impact      `json:"environmental_impact"`
}

func normalizePriority(p string) (string, error) {
	switch p {
	case "":
		return PriorityEmissions, nil
	case PriorityEmissions, PriorityTime, PriorityDistance, PriorityCost, PriorityBalanced:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, p)
	}
}

// OptimizeTrip evaluates up to three candidate routes through the waypoints and
// recommends the best one for the requested priority. The impact baseline is the
// fastest candidate.
func (o *Optimizer) OptimizeTrip(ctx context.Context, req TripRequest) (TripResult, error) {
	priority, err := normalizePriority(req.Priority)
	if err != nil {
		return TripResult{}, err
	}
	// the limit counts intermediate stops, not the destination
	if err := o.checkWaypointCount(len(req.Waypoints)); err != nil {
		return TripResult{}, err
	}
	stops := make([]types.Location, 0, len(req.Waypoints)+1)
	stops = append(stops, req.Waypoints...)
	stops = append(stops, req.Destination)
	if err := o.validate(req.Vehicle, req.Origin, stops); err != nil {
		return TripResult{}, err
	}

	legs := make([]leg, len(stops))
	current := req.Origin
	for i, s := range stops {
		legs[i] = leg{from: current, to: s}
		current = s
	}

	results, err := o.fetchLegs(ctx, legs, tripAlternatives, req.DepartAt)
	if err != nil {
		return TripResult{}, err
	}

	candidates, err := o.buildCandidates(req, legs, results)
	if err != nil {
		return TripResult{}, err
	}
	rankCandidates(candidates, priority)

	result := TripResult{
		Priority:     priority,
		Recommended:  candidates[0],
		Alternatives: candidates[1:],
		Impact:       impactOf(candidates, results),
	}
	return result, nil
}

// buildCandidates combines the i-th alternative of every leg into candidate i,
// reusing a leg's preferred route when it has fewer alternatives.
func (o *Optimizer) buildCandidates(req TripRequest, legs []leg, results [][]legResult) ([]TripRoute, error) {
	n := 0
	for _, r := range results {
		n = max(n, len(r))
	}
	out := make([]TripRoute, 0, n)
	for i := 0; i < n; i++ {
		c := TripRoute{Waypoints: append([]types.Location{req.Origin}, req.Waypoints...)}
		c.Waypoints = append(c.Waypoints, req.Destination)
		for li, l := range legs {
			alt := results[li][0]
			if i < len(results[li]) {
				alt = results[li][i]
			}
			r, err := o.buildRoute(req.Vehicle, l, alt.summary, alt.conditions)
			if err != nil {
				return nil, err
			}
			c.DistanceKm += r.TotalDistance
			c.DurationMinutes += r.TotalDuration
			c.TrafficDelayMinutes += r.Segments[0].TrafficDelay
			c.EmissionsKg += r.TotalEmissions
			c.FuelCostUSD += r.FuelCost
		}
		out = append(out, c)
	}
	return out, nil
}

func rankCandidates(c []TripRoute, priority string) {
	var maxE, maxT, maxC float64
	for _, r := range c {
		maxE = math.Max(maxE, r.EmissionsKg)
		maxT = math.Max(maxT, r.DurationMinutes)
		maxC = math.Max(maxC, r.FuelCostUSD)
	}
	score := func(r TripRoute) float64 {
		switch priority {
		case PriorityTime:
			return r.DurationMinutes
		case PriorityDistance:
			return r.DistanceKm
		case PriorityCost:
			return r.FuelCostUSD
		case PriorityBalanced:
			return 0.5*ratio(r.EmissionsKg, maxE) + 0.3*ratio(r.DurationMinutes, maxT) + 0.2*ratio(r.FuelCostUSD, maxC)
		default:
			return r.EmissionsKg
		}
	}
	sort.SliceStable(c, func(i, j int) bool { return score(c[i]) < score(c[j]) })
}

func ratio(v, maxV float64) float64 {
	if maxV == 0 {
		return 0
	}
	return v / maxV
}

func impactOf(candidates []TripRoute, results [][]legResult) Impact {
	fastest := candidates[0]
	for _, c := range candidates[1:] {
		if c.DurationMinutes < fastest.DurationMinutes {
			fastest = c
		}
	}
	imp := Impact{BaselineEmissionsKg: fastest.EmissionsKg}
	if saved := fastest.EmissionsKg - candidates[0].EmissionsKg; saved > 0 {
		imp.CO2SavedKg = saved
		imp.SavedPercent = saved / fastest.EmissionsKg * 100
	}
	for _, r := range results {
		cond := r[0].conditions
		s := Summarize(&Route{Weather: cond.Weather, Air: cond.Air})
		imp.AQI = math.Max(imp.AQI, cond.Air.AQI)
		imp.WeatherAlerts = imp.WeatherAlerts || s.WeatherAlerts
		imp.AirQualityAlerts = imp.AirQualityAlerts || s.AirQualityAlerts
	}
	return imp
}
