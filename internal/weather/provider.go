// README: Weather provider contract plus simulated and fallback implementations.
package weather

import (
	"context"
	"log"

	"ecoroute/internal/types"
)

type Provider interface {
	Conditions(ctx context.Context, loc types.Location) (Conditions, error)
}

// Simulated always returns SimulatedConditions.
type Simulated struct{}

func (Simulated) Conditions(context.Context, types.Location) (Conditions, error) {
	return SimulatedConditions(), nil
}

type fallback struct {
	primary Provider
}

// Fallback serves simulated conditions whenever primary fails, so a planning
// run never aborts because the weather service is down.
func Fallback(primary Provider) Provider {
	return &fallback{primary: primary}
}

func (f *fallback) Conditions(ctx context.Context, loc types.Location) (Conditions, error) {
	c, err := f.primary.Conditions(ctx, loc)
	if err == nil {
		return c, nil
	}
	if ctx.Err() != nil {
		return Conditions{}, ctx.Err()
	}
	log.Printf("weather: error fetching conditions for %s, using simulated data: %v", loc, err)
	return SimulatedConditions(), nil
}
