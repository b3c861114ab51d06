// README: Plan service resolves the vehicle, runs the optimizer, collects advice and persists the result.
package plan

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ecoroute/internal/advisor"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

// Repository is implemented by Store.
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id types.ID) (*Plan, error)
	ListByVehicle(ctx context.Context, vehicleID types.ID, limit int) ([]*Plan, error)
}

type VehicleLookup interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
}

type Service struct {
	store     Repository
	vehicles  VehicleLookup
	optimizer *routing.Optimizer
	advisor   advisor.Advisor
	now       func() time.Time
}

func NewService(store Repository, vehicles VehicleLookup, optimizer *routing.Optimizer, adv advisor.Advisor) *Service {
	if adv == nil {
		adv = advisor.RuleBased{}
	}
	return &Service{
		store:     store,
		vehicles:  vehicles,
		optimizer: optimizer,
		advisor:   adv,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Plan, error) {
	v, err := s.resolveVehicle(ctx, cmd)
	if err != nil {
		return nil, err
	}
	strategy, err := routing.StrategyByName(cmd.Strategy)
	if err != nil {
		return nil, err
	}

	routes, err := s.optimizer.WithStrategy(strategy).OptimizeRoute(ctx, v, cmd.Start, cmd.Destinations)
	if err != nil {
		return nil, err
	}
	summaries := routing.SummarizeAll(routes)

	advice, err := s.advisor.Advise(ctx, v, summaries)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("plan: advice unavailable for vehicle %s: %v", v.ID, err)
		advice = []string{}
	}

	p := &Plan{
		ID:           types.ID(uuid.NewString()),
		VehicleID:    v.ID,
		Strategy:     strategy.Name(),
		Start:        cmd.Start,
		Destinations: cmd.Destinations,
		Routes:       routes,
		Summaries:    summaries,
		Advice:       advice,
		CreatedAt:    s.now().UTC(),
	}
	if p.Destinations == nil {
		p.Destinations = []types.Location{}
	}
	for _, sum := range summaries {
		p.TotalDistanceKm += sum.TotalDistanceKm
		p.TotalDurationMins += sum.TotalDurationMins
		p.TotalEmissionsKg += sum.TotalEmissionsKg
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("persist plan: %w", err)
	}
	log.Printf("plan: created %s for vehicle %s (%d legs, %.2f kg CO2)", p.ID, p.VehicleID, len(routes), p.TotalEmissionsKg)
	return p, nil
}

func (s *Service) resolveVehicle(ctx context.Context, cmd CreateCommand) (vehicle.Vehicle, error) {
	if cmd.Vehicle != nil {
		if err := cmd.Vehicle.Validate(); err != nil {
			return vehicle.Vehicle{}, err
		}
		return *cmd.Vehicle, nil
	}
	if cmd.VehicleID == "" {
		return vehicle.Vehicle{}, fmt.Errorf("%w: vehicle or vehicle_id is required", ErrInvalidPlan)
	}
	if s.vehicles == nil {
		return vehicle.Vehicle{}, fmt.Errorf("%w: vehicle registry unavailable", ErrInvalidPlan)
	}
	v, err := s.vehicles.Get(ctx, cmd.VehicleID)
	if err != nil {
		return vehicle.Vehicle{}, err
	}
	return *v, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Plan, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) ListByVehicle(ctx context.Context, vehicleID types.ID, limit int) ([]*Plan, error) {
	if vehicleID == "" {
		return nil, fmt.Errorf("%w: missing vehicle id", ErrInvalidPlan)
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	plans, err := s.store.ListByVehicle(ctx, vehicleID, limit)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []*Plan{}
	}
	return plans, nil
}
