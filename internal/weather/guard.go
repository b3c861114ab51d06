// README: Quota guard that stops calling the live weather API once its daily budget is spent.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ecoroute/internal/modules/quota"
	"ecoroute/internal/types"
)

// Budget consumes one call from a provider's allowance.
type Budget interface {
	Use(ctx context.Context, provider string) error
}

type guard struct {
	primary Provider
	budget  Budget
	name    string
}

// Guard charges every call to budget under name. An exhausted budget is returned
// as an error; other accounting failures are logged and the call proceeds.
func Guard(primary Provider, budget Budget, name string) Provider {
	return &guard{primary: primary, budget: budget, name: name}
}

func (g *guard) Conditions(ctx context.Context, loc types.Location) (Conditions, error) {
	if err := g.budget.Use(ctx, g.name); err != nil {
		if errors.Is(err, quota.ErrQuotaExhausted) {
			return Conditions{}, fmt.Errorf("weather %s: %w", g.name, err)
		}
		log.Printf("weather: quota accounting for %s failed: %v", g.name, err)
	}
	return g.primary.Conditions(ctx, loc)
}
