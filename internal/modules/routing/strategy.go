// README: Visiting-order strategies applied before legs are routed.
package routing

import (
	"fmt"

	"ecoroute/internal/types"
)

const (
	StrategySequential      = "sequential"
	StrategyNearestNeighbor = "nearest_neighbor"
)

type Strategy interface {
	Name() string
	// Order returns the destinations in visiting order. It must not modify dests.
	Order(start types.Location, dests []types.Location) []types.Location
}

// StrategyByName resolves a built-in strategy; "" selects sequential.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", StrategySequential:
		return Sequential{}, nil
	case StrategyNearestNeighbor:
		return NearestNeighbor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Sequential keeps the caller's order.
type Sequential struct{}

func (Sequential) Name() string { return StrategySequential }

func (Sequential) Order(_ types.Location, dests []types.Location) []types.Location {
	out := make([]types.Location, len(dests))
	copy(out, dests)
	return out
}

// NearestNeighbor greedily visits the closest unvisited destination next.
type NearestNeighbor struct{}

func (NearestNeighbor) Name() string { return StrategyNearestNeighbor }

func (NearestNeighbor) Order(start types.Location, dests []types.Location) []types.Location {
	remaining := make([]types.Location, len(dests))
	copy(remaining, dests)

	out := make([]types.Location, 0, len(dests))
	current := start
	for len(remaining) > 0 {
		best := 0
		bestDist := types.HaversineKm(current, remaining[0])
		for i := 1; i < len(remaining); i++ {
			// strict comparison keeps input order on ties
			if d := types.HaversineKm(current, remaining[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		current = remaining[best]
		out = append(out, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return out
}
