package plan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ecoroute/internal/advisor"
	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/testutil"
	"ecoroute/internal/traffic"
	"ecoroute/internal/types"
	"ecoroute/internal/weather"
)

type memStore struct {
	mu    sync.Mutex
	plans map[types.ID]*Plan
	err   error
}

func newMemStore() *memStore { return &memStore{plans: map[types.ID]*Plan{}} }

func (m *memStore) Create(_ context.Context, p *Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *p
	m.plans[p.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListByVehicle(_ context.Context, vehicleID types.ID, limit int) ([]*Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Plan
	for _, p := range m.plans {
		if p.VehicleID == vehicleID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type memVehicles map[types.ID]vehicle.Vehicle

func (m memVehicles) Get(_ context.Context, id types.ID) (*vehicle.Vehicle, error) {
	v, ok := m[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	return &v, nil
}

var (
	depot = types.Location{Lat: 51.5074, Lon: -0.1278, Address: "London"}
	stops = []types.Location{
		{Lat: 51.4545, Lon: -2.5879, Address: "Bristol"},
		{Lat: 52.4862, Lon: -1.8904, Address: "Birmingham"},
	}
	lorry = vehicle.Vehicle{ID: "lorry-7", Type: "truck", FuelType: "diesel", FuelEfficiency: 3, CargoCapacity: 2000, CurrentLoad: 1000}
)

func newTestService(store Repository) *Service {
	opt := routing.NewOptimizer(traffic.Simulated{}, weather.Simulated{}, emission.NewCalculator(emission.DefaultFactors()), routing.Options{})
	svc := NewService(store, memVehicles{lorry.ID: lorry}, opt, advisor.RuleBased{})
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600)) }
	return svc
}

func TestService_CreateByVehicleID(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	p, err := svc.Create(context.Background(), CreateCommand{VehicleID: lorry.ID, Start: depot, Destinations: stops})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" || p.VehicleID != lorry.ID || p.Strategy != routing.StrategySequential {
		t.Errorf("plan header = %+v", p)
	}
	if len(p.Routes) != 2 || len(p.Summaries) != 2 {
		t.Fatalf("routes=%d summaries=%d", len(p.Routes), len(p.Summaries))
	}
	// simulated legs: 50 km each at 0.9 kg/km with a half-loaded truck
	wantKg := 2 * 50 * 0.9 * 1.1
	if p.TotalDistanceKm != 100 || p.TotalDurationMins != 120 || p.TotalEmissionsKg < wantKg-1e-9 || p.TotalEmissionsKg > wantKg+1e-9 {
		t.Errorf("totals = %.2f km, %.2f min, %.4f kg", p.TotalDistanceKm, p.TotalDurationMins, p.TotalEmissionsKg)
	}
	if len(p.Advice) == 0 {
		t.Error("expected advice")
	}
	if p.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt not UTC: %v", p.CreatedAt)
	}

	got, err := svc.Get(context.Background(), p.ID)
	if err != nil || got.ID != p.ID {
		t.Errorf("Get = %v, %v", got, err)
	}
	list, err := svc.ListByVehicle(context.Background(), lorry.ID, 0)
	if err != nil || len(list) != 1 {
		t.Errorf("ListByVehicle = %d, %v", len(list), err)
	}
}

func TestService_CreateInlineVehicle(t *testing.T) {
	svc := newTestService(newMemStore())
	inline := vehicle.Vehicle{ID: "ev-1", FuelType: "electric", CargoCapacity: 500}

	p, err := svc.Create(context.Background(), CreateCommand{
		Vehicle:      &inline,
		Start:        depot,
		Destinations: stops,
		Strategy:     routing.StrategyNearestNeighbor,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.VehicleID != "ev-1" || p.TotalEmissionsKg != 0 || p.Strategy != routing.StrategyNearestNeighbor {
		t.Errorf("plan = %+v", p)
	}
	// London is nearer Birmingham than Bristol
	if p.Routes[0].Segments[0].End.Address != "Birmingham" {
		t.Errorf("first stop = %s", p.Routes[0].Segments[0].End.Address)
	}
}

func TestService_CreateErrors(t *testing.T) {
	bad := lorry
	bad.CurrentLoad = 5000

	tests := []struct {
		name    string
		cmd     CreateCommand
		wantErr error
	}{
		{name: "no vehicle", cmd: CreateCommand{Start: depot}, wantErr: ErrInvalidPlan},
		{name: "unknown vehicle", cmd: CreateCommand{VehicleID: "ghost", Start: depot}, wantErr: vehicle.ErrNotFound},
		{name: "invalid inline", cmd: CreateCommand{Vehicle: &bad, Start: depot}, wantErr: vehicle.ErrInvalidVehicle},
		{name: "unknown strategy", cmd: CreateCommand{VehicleID: lorry.ID, Start: depot, Strategy: "ants"}, wantErr: routing.ErrUnknownStrategy},
		{name: "bad coordinates", cmd: CreateCommand{VehicleID: lorry.ID, Start: types.Location{Lat: -100}}, wantErr: types.ErrInvalidCoordinates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			_, err := newTestService(store).Create(context.Background(), tt.cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if len(store.plans) != 0 {
				t.Error("nothing should be persisted on error")
			}
		})
	}
}

func TestService_PersistFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("disk full")
	_, err := newTestService(store).Create(context.Background(), CreateCommand{VehicleID: lorry.ID, Start: depot, Destinations: stops})
	if !errors.Is(err, store.err) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestService_GetUnknown(t *testing.T) {
	svc := newTestService(newMemStore())
	for _, id := range []types.ID{"not-a-uuid", "6f1c1f1e-7a0e-4a55-8d2e-3f0c7c3f9b11"} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%s) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestService_ListByVehicleRequiresID(t *testing.T) {
	if _, err := newTestService(newMemStore()).ListByVehicle(context.Background(), "", 5); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("err = %v, want ErrInvalidPlan", err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t, "plans")
	store := NewStore(db)
	svc := newTestService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateCommand{VehicleID: lorry.ID, Start: depot, Destinations: stops})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := store.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != p.ID || len(got.Routes) != 2 || got.Routes[1].Segments[0].End != stops[1] || got.Start != depot {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.TotalEmissionsKg != p.TotalEmissionsKg || len(got.Advice) != len(p.Advice) {
		t.Errorf("totals or advice lost: %+v", got)
	}

	list, err := store.ListByVehicle(ctx, lorry.ID, 10)
	if err != nil || len(list) != 1 {
		t.Errorf("ListByVehicle = %d, %v", len(list), err)
	}
	if _, err := store.Get(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing plan err = %v", err)
	}
}
