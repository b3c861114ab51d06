// README: Quota guard that stops calling the live traffic API once its daily budget is spent.
package traffic

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ecoroute/internal/modules/quota"
)

type Budget interface {
	Use(ctx context.Context, provider string) error
}

type guard struct {
	primary Provider
	budget  Budget
	name    string
}

// Guard charges every call to budget under name.
func Guard(primary Provider, budget Budget, name string) Provider {
	return &guard{primary: primary, budget: budget, name: name}
}

func (g *guard) Routes(ctx context.Context, req Request) ([]Summary, error) {
	if err := g.budget.Use(ctx, g.name); err != nil {
		if errors.Is(err, quota.ErrQuotaExhausted) {
			return nil, fmt.Errorf("traffic %s: %w", g.name, err)
		}
		log.Printf("traffic: quota accounting for %s failed: %v", g.name, err)
	}
	return g.primary.Routes(ctx, req)
}
