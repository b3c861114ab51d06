package traffic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"googlemaps.github.io/maps"

	"ecoroute/internal/modules/quota"
	"ecoroute/internal/types"
)

var (
	hamburg = types.Location{Lat: 53.5511, Lon: 9.9937, Address: "Hamburg"}
	bremen  = types.Location{Lat: 53.0793, Lon: 8.8017, Address: "Bremen"}
)

func TestTomTomClient_Routes(t *testing.T) {
	depart := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/calculateRoute/53.5511,9.9937:53.0793,8.8017/json"
		if r.URL.Path != wantPath {
			t.Errorf("path = %s, want %s", r.URL.Path, wantPath)
		}
		q := r.URL.Query()
		if q.Get("key") != "k" || q.Get("traffic") != "true" || q.Get("travelMode") != "truck" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("maxAlternatives") != "2" {
			t.Errorf("maxAlternatives = %q", q.Get("maxAlternatives"))
		}
		if q.Get("departAt") != "2026-03-01T08:00:00Z" {
			t.Errorf("departAt = %q", q.Get("departAt"))
		}
		fmt.Fprint(w, `{"routes":[
			{"summary":{"lengthInMeters":120000,"travelTimeInSeconds":5400,"trafficDelayInSeconds":600}},
			{"summary":{"lengthInMeters":125000,"travelTimeInSeconds":5000,"trafficDelayInSeconds":0}}]}`)
	}))
	defer srv.Close()

	c := NewTomTomClient(srv.Client(), srv.URL, "k")
	got, err := c.Routes(context.Background(), Request{From: hamburg, To: bremen, DepartAt: depart, MaxAlternatives: 2})
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d routes, want 2", len(got))
	}
	want := Summary{LengthInMeters: 120000, TravelTimeInSeconds: 5400, TrafficDelayInSeconds: 600}
	if got[0] != want {
		t.Errorf("first route = %+v, want %+v", got[0], want)
	}
	if got[0].DistanceKm() != 120 || got[0].DurationMinutes() != 90 || got[0].DelayMinutes() != 10 {
		t.Errorf("unit conversion wrong: %v %v %v", got[0].DistanceKm(), got[0].DurationMinutes(), got[0].DelayMinutes())
	}
}

func TestTomTomClient_OmitsOptionalParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("maxAlternatives") || q.Has("departAt") {
			t.Errorf("optional params sent: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"routes":[{"summary":{"lengthInMeters":1,"travelTimeInSeconds":1,"trafficDelayInSeconds":0}}]}`)
	}))
	defer srv.Close()

	if _, err := NewTomTomClient(srv.Client(), srv.URL, "k").Routes(context.Background(), Request{From: hamburg, To: bremen}); err != nil {
		t.Fatalf("Routes: %v", err)
	}
}

func TestTomTomClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "empty routes", status: http.StatusOK, body: `{"routes":[]}`, wantErr: ErrNoRoute},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`},
		{name: "garbage", status: http.StatusOK, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewTomTomClient(srv.Client(), srv.URL, "k").Routes(context.Background(), Request{From: hamburg, To: bremen})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoogleClient_Routes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/directions/json") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("departure_time") != "now" {
			t.Errorf("departure_time = %q", r.URL.Query().Get("departure_time"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"OK","routes":[{"summary":"A1","legs":[{
			"distance":{"text":"120 km","value":120000},
			"duration":{"text":"80 mins","value":4800},
			"duration_in_traffic":{"text":"90 mins","value":5400}}]}]}`)
	}))
	defer srv.Close()

	c, err := NewGoogleClient("k", srv.Client(), maps.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGoogleClient: %v", err)
	}
	got, err := c.Routes(context.Background(), Request{From: hamburg, To: bremen})
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	want := Summary{LengthInMeters: 120000, TravelTimeInSeconds: 5400, TrafficDelayInSeconds: 600}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Routes() = %+v, want [%+v]", got, want)
	}
}

type stubProvider struct {
	routes []Summary
	err    error
	calls  int
}

func (s *stubProvider) Routes(context.Context, Request) ([]Summary, error) {
	s.calls++
	return s.routes, s.err
}

func TestFallback(t *testing.T) {
	live := []Summary{{LengthInMeters: 10, TravelTimeInSeconds: 20, TrafficDelayInSeconds: 0}}
	tests := []struct {
		name    string
		primary *stubProvider
		want    Summary
	}{
		{name: "primary ok", primary: &stubProvider{routes: live}, want: live[0]},
		{name: "primary error", primary: &stubProvider{err: errors.New("timeout")}, want: SimulatedSummary()},
		{name: "primary empty", primary: &stubProvider{}, want: SimulatedSummary()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fallback(tt.primary).Routes(context.Background(), Request{From: hamburg, To: bremen})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Routes() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFallback_PropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fallback(&stubProvider{err: ctx.Err()}).Routes(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSimulated(t *testing.T) {
	got, _ := Simulated{}.Routes(context.Background(), Request{})
	want := Summary{LengthInMeters: 50000, TravelTimeInSeconds: 3600, TrafficDelayInSeconds: 300}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Simulated = %+v", got)
	}
}

type budgetFunc func(ctx context.Context, provider string) error

func (f budgetFunc) Use(ctx context.Context, provider string) error { return f(ctx, provider) }

func TestGuard(t *testing.T) {
	t.Run("exhausted", func(t *testing.T) {
		primary := &stubProvider{routes: []Summary{SimulatedSummary()}}
		g := Guard(primary, budgetFunc(func(context.Context, string) error { return quota.ErrQuotaExhausted }), "tomtom")
		_, err := g.Routes(context.Background(), Request{})
		if !errors.Is(err, quota.ErrQuotaExhausted) {
			t.Errorf("err = %v, want ErrQuotaExhausted", err)
		}
		if primary.calls != 0 {
			t.Errorf("primary called %d times", primary.calls)
		}
	})
	t.Run("accounting failure proceeds", func(t *testing.T) {
		primary := &stubProvider{routes: []Summary{SimulatedSummary()}}
		g := Guard(primary, budgetFunc(func(context.Context, string) error { return errors.New("db down") }), "tomtom")
		if _, err := g.Routes(context.Background(), Request{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if primary.calls != 1 {
			t.Errorf("primary called %d times, want 1", primary.calls)
		}
	})
	t.Run("charges named provider", func(t *testing.T) {
		var charged string
		g := Guard(&stubProvider{routes: []Summary{SimulatedSummary()}}, budgetFunc(func(_ context.Context, p string) error {
			charged = p
			return nil
		}), "google")
		_, _ = g.Routes(context.Background(), Request{})
		if charged != "google" {
			t.Errorf("charged %q, want google", charged)
		}
	})
}

func TestFallbackOverGuard_ServesSimulatedWhenExhausted(t *testing.T) {
	primary := &stubProvider{routes: []Summary{{LengthInMeters: 1}}}
	p := Fallback(Guard(primary, budgetFunc(func(context.Context, string) error { return quota.ErrQuotaExhausted }), "tomtom"))
	got, err := p.Routes(context.Background(), Request{From: hamburg, To: bremen})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != SimulatedSummary() {
		t.Errorf("got %+v, want simulated", got[0])
	}
}
