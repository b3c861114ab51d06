// README: Quota service orchestrates per-provider daily budgets.
package quota

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Repository is implemented by Store.
type Repository interface {
	UseCall(ctx context.Context, provider string, budget int) error
	EnsureProvider(ctx context.Context, provider string, budget int) error
	Remaining(ctx context.Context, provider string, budget int) (int, error)
}

type Service struct {
	store  Repository
	budget int
}

func NewService(store Repository, dailyBudget int) *Service {
	if dailyBudget <= 0 {
		dailyBudget = DefaultDailyCalls
	}
	return &Service{store: store, budget: dailyBudget}
}

// Use deducts one call from provider's daily allowance.
// If the provider row does not exist yet it is initialised and the call is immediately consumed.
func (s *Service) Use(ctx context.Context, provider string) error {
	err := s.store.UseCall(ctx, provider, s.budget)
	if err != ErrQuotaExhausted {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureProvider(ctx, provider, s.budget); initErr != nil {
		return initErr
	}
	return s.store.UseCall(ctx, provider, s.budget)
}

// Remaining reports today's remaining calls; unknown providers have the full budget.
func (s *Service) Remaining(ctx context.Context, provider string) (int, error) {
	n, err := s.store.Remaining(ctx, provider, s.budget)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.budget, nil
	}
	return n, err
}
