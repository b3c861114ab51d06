package http_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/advisor"
	httptransport "ecoroute/internal/http"
	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/plan"
	"ecoroute/internal/modules/quota"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/testutil"
	"ecoroute/internal/traffic"
	"ecoroute/internal/weather"
)

// liveTraffic stands in for a paid provider and counts the calls that reach it.
type liveTraffic struct {
	calls atomic.Int32
}

func (l *liveTraffic) Routes(context.Context, traffic.Request) ([]traffic.Summary, error) {
	l.calls.Add(1)
	return []traffic.Summary{{LengthInMeters: 42000, TravelTimeInSeconds: 2400}}, nil
}

func TestPlansWithQuotaGuard_Postgres(t *testing.T) {
	db := testutil.NewTestDB(t, "vehicles", "plans", "api_usage")
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	budget := quota.NewService(quota.NewStore(db), 1)
	live := &liveTraffic{}
	tp := traffic.Fallback(traffic.Guard(live, budget, "tomtom"))

	vehicles := vehicle.NewService(vehicle.NewStore(db))
	calc := emission.NewCalculator(emission.DefaultFactors())
	opt := routing.NewOptimizer(tp, weather.Simulated{}, calc, routing.Options{})
	plans := plan.NewService(plan.NewStore(db), vehicles, opt, advisor.RuleBased{})
	r := httptransport.NewRouter(httptransport.RouterDeps{
		Vehicles:  vehicles,
		Plans:     plans,
		Optimizer: opt,
		Emission:  calc,
	})

	if w := do(r, http.MethodPost, "/api/v1/vehicles", truckBody); w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	planBody := map[string]any{
		"vehicle_id":   "truck-9",
		"start":        map[string]any{"lat": 40.7128, "lon": -74.0060, "address": "Depot"},
		"destinations": []map[string]any{{"lat": 39.9526, "lon": -75.1652, "address": "Philadelphia"}},
	}

	// First plan spends the only call in the budget.
	w := do(r, http.MethodPost, "/api/v1/plans", planBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("first plan: %d %s", w.Code, w.Body.String())
	}
	var first plan.Plan
	decode(t, w, &first)
	if !near(first.TotalDistanceKm, 42) {
		t.Errorf("first plan distance = %v, want live 42", first.TotalDistanceKm)
	}

	// Second plan is served from simulated data instead of failing.
	w = do(r, http.MethodPost, "/api/v1/plans", planBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("second plan: %d %s", w.Code, w.Body.String())
	}
	var second plan.Plan
	decode(t, w, &second)
	if !near(second.TotalDistanceKm, traffic.SimulatedSummary().DistanceKm()) {
		t.Errorf("second plan distance = %v, want simulated", second.TotalDistanceKm)
	}

	if got := live.calls.Load(); got != 1 {
		t.Errorf("live provider calls = %d, want 1", got)
	}
	remaining, err := budget.Remaining(ctx, "tomtom")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}

	w = do(r, http.MethodGet, "/api/v1/plans/"+string(first.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get plan: %d %s", w.Code, w.Body.String())
	}
	var stored plan.Plan
	decode(t, w, &stored)
	if len(stored.Routes) != 1 || stored.Routes[0].Segments[0].End.Address != "Philadelphia" {
		t.Errorf("stored routes = %+v", stored.Routes)
	}

	w = do(r, http.MethodGet, "/api/v1/vehicles/truck-9/plans", nil)
	var listed struct {
		Plans []plan.Plan `json:"plans"`
	}
	decode(t, w, &listed)
	if len(listed.Plans) != 2 || listed.Plans[0].ID != second.ID {
		t.Errorf("listed plans = %d, newest first expected %s", len(listed.Plans), second.ID)
	}
}
