// README: Optimizer routes every leg through the traffic and weather providers and prices its emissions.
package routing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/traffic"
	"ecoroute/internal/types"
	"ecoroute/internal/weather"
)

type Optimizer struct {
	traffic  traffic.Provider
	weather  weather.Provider
	calc     *emission.Calculator
	strategy Strategy
	opts     Options
}

func NewOptimizer(tp traffic.Provider, wp weather.Provider, calc *emission.Calculator, opts Options) *Optimizer {
	return &Optimizer{
		traffic:  tp,
		weather:  wp,
		calc:     calc,
		strategy: Sequential{},
		opts:     opts.withDefaults(),
	}
}

// WithStrategy returns a copy of the optimizer that orders destinations with s.
func (o *Optimizer) WithStrategy(s Strategy) *Optimizer {
	cp := *o
	cp.strategy = s
	return &cp
}

func (o *Optimizer) Strategy() Strategy { return o.strategy }

type leg struct {
	from, to types.Location
}

type legResult struct {
	summary    traffic.Summary
	conditions weather.Conditions
}

// OptimizeRoute returns one Route per leg, in visiting order.
func (o *Optimizer) OptimizeRoute(ctx context.Context, v vehicle.Vehicle, start types.Location, destinations []types.Location) ([]Route, error) {
	if err := o.checkWaypointCount(len(destinations)); err != nil {
		return nil, err
	}
	if err := o.validate(v, start, destinations); err != nil {
		return nil, err
	}
	if len(destinations) == 0 {
		return []Route{}, nil
	}

	ordered := o.strategy.Order(start, destinations)
	legs := make([]leg, len(ordered))
	current := start
	for i, d := range ordered {
		legs[i] = leg{from: current, to: d}
		current = d
	}

	results, err := o.fetchLegs(ctx, legs, 0, time.Time{})
	if err != nil {
		return nil, err
	}

	routes := make([]Route, len(legs))
	for i, l := range legs {
		summary := results[i][0].summary
		cond := results[i][0].conditions
		r, err := o.buildRoute(v, l, summary, cond)
		if err != nil {
			return nil, err
		}
		routes[i] = r
	}
	return routes, nil
}

// fetchLegs queries traffic and weather for each leg concurrently.
// Each result slot holds one entry per alternative the provider returned.
// departAt applies to the first leg only.
func (o *Optimizer) fetchLegs(ctx context.Context, legs []leg, alternatives int, departAt time.Time) ([][]legResult, error) {
	results := make([][]legResult, len(legs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.LegConcurrency)
	for i, l := range legs {
		g.Go(func() error {
			req := traffic.Request{From: l.from, To: l.to, MaxAlternatives: alternatives}
			if i == 0 {
				req.DepartAt = departAt
			}
			summaries, err := o.traffic.Routes(gctx, req)
			if err != nil {
				return fmt.Errorf("route %s -> %s: %w", l.from, l.to, err)
			}
			if len(summaries) == 0 {
				return fmt.Errorf("route %s -> %s: %w", l.from, l.to, traffic.ErrNoRoute)
			}
			cond, err := o.weather.Conditions(gctx, l.to)
			if err != nil {
				return fmt.Errorf("conditions at %s: %w", l.to, err)
			}
			slot := make([]legResult, len(summaries))
			for j, s := range summaries {
				slot[j] = legResult{summary: s, conditions: cond}
			}
			results[i] = slot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Optimizer) buildRoute(v vehicle.Vehicle, l leg, s traffic.Summary, cond weather.Conditions) (Route, error) {
	seg := Segment{
		Start:        l.from,
		End:          l.to,
		Distance:     s.DistanceKm(),
		Duration:     s.DurationMinutes(),
		TrafficDelay: s.DelayMinutes(),
	}
	est, err := o.calc.Estimate(v, seg.Distance, cond)
	if err != nil {
		return Route{}, err
	}
	seg.Emissions = est.EmissionsKg

	return Route{
		Segments:       []Segment{seg},
		TotalDistance:  seg.Distance,
		TotalDuration:  seg.Duration,
		TotalEmissions: seg.Emissions,
		FuelCost:       est.FuelCostUSD,
		Weather:        cond.Weather,
		Air:            cond.Air,
	}, nil
}

func (o *Optimizer) checkWaypointCount(n int) error {
	if n > o.opts.MaxWaypoints {
		return fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyWaypoints, n, o.opts.MaxWaypoints)
	}
	return nil
}

func (o *Optimizer) validate(v vehicle.Vehicle, start types.Location, destinations []types.Location) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	for i, d := range destinations {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("destination %d: %w", i, err)
		}
	}
	// rejects invalid profiles and unknown fuels before any provider call
	_, err := o.calc.Estimate(v, 0, weather.Conditions{})
	return err
}
