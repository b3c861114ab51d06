// README: Bench checks for ecoroute: environment, migrations, HTTP API flows, concurrency and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"ecoroute/internal/infra"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"

	benchVehicleID = "bench-truck-1"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = infra.NewRedis(r.cfg.RedisAddr)
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func benchVehicle() map[string]any {
	return map[string]any{
		"id":              benchVehicleID,
		"type":            "truck",
		"fuel_type":       "diesel",
		"fuel_efficiency": 3.2,
		"cargo_capacity":  12000,
		"current_load":    6000,
	}
}

func optimizePayload() map[string]any {
	return map[string]any{
		"origin":                map[string]any{"lat": 40.7128, "lng": -74.0060},
		"destination":           map[string]any{"lat": 39.9526, "lng": -75.1652},
		"waypoints":             []map[string]any{{"lat": 40.2206, "lng": -74.7597}},
		"vehicle_id":            benchVehicleID,
		"optimization_priority": "balanced",
	}
}

func estimatePayload() map[string]any {
	return map[string]any{
		"vehicle_id":  benchVehicleID,
		"distance_km": 120.5,
		"weather": map[string]any{
			"weather": map[string]any{"precipitation": 2.5, "wind_speed": 25},
			"air":     map[string]any{"aqi": 40},
		},
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL + "/api/v1"
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				if err := infra.ApplyMigrationFile(ctx, r.db, r.cfg.MigrationPath); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				tables, err := infra.MigrationTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
			},
		},

		httpCaseMethod("API: health", http.MethodGet, r.cfg.BaseURL+"/health", nil, []int{200}),

		// Vehicles
		httpCase("Vehicle: register", base+"/vehicles", benchVehicle(), []int{201}),
		httpCase("Vehicle: register zero capacity -> 400", base+"/vehicles", map[string]any{
			"id":              "bench-bad",
			"type":            "truck",
			"fuel_type":       "diesel",
			"fuel_efficiency": 3,
			"cargo_capacity":  0,
		}, []int{400}),
		httpCaseMethod("Vehicle: get", http.MethodGet, base+"/vehicles/"+benchVehicleID, nil, []int{200}),
		httpCaseMethod("Vehicle: get unknown -> 404", http.MethodGet, base+"/vehicles/bench-missing", nil, []int{404}),
		httpCaseMethod("Vehicle: update load", http.MethodPut, base+"/vehicles/"+benchVehicleID+"/load", map[string]any{
			"current_load": 8000,
		}, []int{200}),
		httpCaseMethod("Vehicle: overload -> 400", http.MethodPut, base+"/vehicles/"+benchVehicleID+"/load", map[string]any{
			"current_load": 20000,
		}, []int{400}),

		// Plans
		httpCase("Plan: create", base+"/plans", map[string]any{
			"vehicle_id": benchVehicleID,
			"start":      map[string]any{"lat": 40.7128, "lon": -74.0060, "address": "New York, NY"},
			"destinations": []map[string]any{
				{"lat": 39.9526, "lon": -75.1652, "address": "Philadelphia, PA"},
				{"lat": 39.2904, "lon": -76.6122, "address": "Baltimore, MD"},
			},
			"strategy": "nearest_neighbor",
		}, []int{201}),
		httpCase("Plan: unknown strategy -> 400", base+"/plans", map[string]any{
			"vehicle_id":   benchVehicleID,
			"start":        map[string]any{"lat": 40.7128, "lon": -74.0060},
			"destinations": []map[string]any{{"lat": 39.9526, "lon": -75.1652}},
			"strategy":     "genetic",
		}, []int{400}),
		httpCaseMethod("Plan: list by vehicle", http.MethodGet, base+"/vehicles/"+benchVehicleID+"/plans?limit=5", nil, []int{200}),

		// Routes and emissions
		httpCase("Route: optimize (valid)", base+"/routes/optimize", optimizePayload(), []int{200}),
		httpCase("Route: optimize (missing origin -> 400)", base+"/routes/optimize", map[string]any{
			"destination": map[string]any{"lat": 39.9526, "lng": -75.1652},
			"vehicle_id":  benchVehicleID,
		}, []int{400}),
		httpCase("Emission: estimate", base+"/emissions/estimate", estimatePayload(), []int{200}),
		httpCase("Emission: negative distance -> 400", base+"/emissions/estimate", map[string]any{
			"vehicle_id":  benchVehicleID,
			"distance_km": -1,
		}, []int{400}),

		// Concurrency
		{
			Name: "Concurrency: parallel load updates",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentLoadUpdates(ctx, r, base+"/vehicles/"+benchVehicleID)
			},
		},

		// Performance
		{
			Name: "Perf: optimize throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/routes/optimize", optimizePayload())
			},
		},
		{
			Name: "Perf: estimate throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/emissions/estimate", estimatePayload())
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, err := r.do(ctx, method, url, body, nil)
			latency := time.Since(start)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d", status)
			if slices.Contains(okStatuses, status) {
				return Result{Status: statusPass, Latency: latency, Note: note}
			}
			return Result{Status: statusFail, Latency: latency, Note: note}
		},
	}
}

// do sends a JSON request and decodes the response into out when out is not nil.
func (r *Runner) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
		return resp.StatusCode, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// concurrentLoadUpdates writes distinct loads in parallel; every write must
// succeed and the stored load must be one of the written values.
func concurrentLoadUpdates(ctx context.Context, r *Runner, vehicleURL string) Result {
	var wg sync.WaitGroup
	var mu sync.Mutex
	written := make([]float64, 0, r.cfg.Concurrency)
	failed := 0

	for i := 0; i < r.cfg.Concurrency; i++ {
		load := float64(1000 + i*100)
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := r.do(ctx, http.MethodPut, vehicleURL+"/load", map[string]any{"current_load": load}, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || status != http.StatusOK {
				failed++
				return
			}
			written = append(written, load)
		}()
	}
	wg.Wait()

	if failed > 0 {
		return Result{Status: statusFail, Note: fmt.Sprintf("failed=%d", failed)}
	}
	var v struct {
		CurrentLoad float64 `json:"current_load"`
	}
	status, err := r.do(ctx, http.MethodGet, vehicleURL, nil, &v)
	if err != nil || status != http.StatusOK {
		return Result{Status: statusFail, Note: fmt.Sprintf("read back status=%d err=%v", status, err)}
	}
	if !slices.Contains(written, v.CurrentLoad) {
		return Result{Status: statusFail, Note: fmt.Sprintf("unexpected load %.0f", v.CurrentLoad)}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("writes=%d final=%.0f", len(written), v.CurrentLoad)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, non2xx int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, err := r.do(ctx, http.MethodPost, url, payload, nil)
				mu.Lock()
				switch {
				case err != nil:
					errCount++
				case status < 200 || status >= 300:
					non2xx++
				default:
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: statusFail, Note: fmt.Sprintf("no successful requests errors=%d non2xx=%d", errCount, non2xx)}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d non2xx=%d", rps, errCount, non2xx)}
}
