// README: Traffic provider contract plus simulated and fallback implementations.
package traffic

import (
	"context"
	"log"
)

// Provider returns at least one summary on success; the first is the preferred route.
type Provider interface {
	Routes(ctx context.Context, req Request) ([]Summary, error)
}

type Simulated struct{}

func (Simulated) Routes(context.Context, Request) ([]Summary, error) {
	return []Summary{SimulatedSummary()}, nil
}

type fallback struct {
	primary Provider
}

// Fallback serves the simulated route whenever primary fails.
func Fallback(primary Provider) Provider {
	return &fallback{primary: primary}
}

func (f *fallback) Routes(ctx context.Context, req Request) ([]Summary, error) {
	routes, err := f.primary.Routes(ctx, req)
	if err == nil && len(routes) > 0 {
		return routes, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil {
		err = ErrNoRoute
	}
	log.Printf("traffic: error routing %s -> %s, using simulated data: %v", req.From, req.To, err)
	return []Summary{SimulatedSummary()}, nil
}
