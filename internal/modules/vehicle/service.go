// README: Vehicle service validates profiles and manages the fleet registry.
package vehicle

import (
	"context"
	"fmt"

	"ecoroute/internal/types"
)

// Repository is the persistence contract of the vehicle registry.
type Repository interface {
	Upsert(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, id types.ID) (*Vehicle, error)
	List(ctx context.Context) ([]*Vehicle, error)
	UpdateLoad(ctx context.Context, id types.ID, load float64) (bool, error)
}

type Service struct {
	store Repository
}

func NewService(store Repository) *Service {
	return &Service{store: store}
}

type UpdateLoadCommand struct {
	VehicleID   types.ID
	CurrentLoad float64
}

func (s *Service) Register(ctx context.Context, v Vehicle) (*Vehicle, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidVehicle)
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Vehicle, error) {
	return s.store.List(ctx)
}

func (s *Service) UpdateLoad(ctx context.Context, cmd UpdateLoadCommand) (*Vehicle, error) {
	v, err := s.store.Get(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	next := *v
	next.CurrentLoad = cmd.CurrentLoad
	if err := next.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.store.UpdateLoad(ctx, cmd.VehicleID, cmd.CurrentLoad)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, cmd.VehicleID)
}
