// README: Eco-driving advice for a planned set of routes.
package advisor

import (
	"context"
	"log"

	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
)

// Advisor returns human-readable tips for driving the summarized routes.
type Advisor interface {
	Advise(ctx context.Context, v vehicle.Vehicle, summaries []routing.Summary) ([]string, error)
}

type fallback struct {
	primary Advisor
	backup  Advisor
}

// WithFallback uses backup whenever primary errors or returns no tips.
func WithFallback(primary, backup Advisor) Advisor {
	return &fallback{primary: primary, backup: backup}
}

func (f *fallback) Advise(ctx context.Context, v vehicle.Vehicle, summaries []routing.Summary) ([]string, error) {
	tips, err := f.primary.Advise(ctx, v, summaries)
	if err == nil && len(tips) > 0 {
		return tips, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		log.Printf("advisor: primary failed, using rule-based tips: %v", err)
	}
	return f.backup.Advise(ctx, v, summaries)
}
