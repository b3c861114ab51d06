package infra

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastOptions() HTTPClientOptions {
	opts := DefaultHTTPClientOptions()
	opts.RetryWaitMin = time.Millisecond
	opts.RetryWaitMax = 4 * time.Millisecond
	opts.RPS = 0
	return opts
}

func TestProviderHTTPClient_RetriesTransientStatus(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewProviderHTTPClient("test", fastOptions())
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestProviderHTTPClient_DoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewProviderHTTPClient("test", fastOptions())
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestProviderHTTPClient_GivesUpAfterRetryMax(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewProviderHTTPClient("test", fastOptions())
	resp, err := client.Get(srv.URL)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&hits); got != 4 {
		t.Fatalf("expected 1 attempt + 3 retries, got %d", got)
	}
}

func TestCheckRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	retry, err := checkRetry(ctx, &http.Response{StatusCode: http.StatusServiceUnavailable}, nil)
	if retry || err == nil {
		t.Fatalf("expected no retry and an error, got retry=%v err=%v", retry, err)
	}
}

func TestProviderHTTPClient_RateLimitsRequests(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	opts := fastOptions()
	opts.RPS = 10 // burst of 10, then one token every 100ms
	client := NewProviderHTTPClient("test", opts)

	start := time.Now()
	for i := 0; i < 15; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
	}
	elapsed := time.Since(start)

	if got := atomic.LoadInt32(&hits); got != 15 {
		t.Fatalf("expected 15 requests, got %d", got)
	}
	if elapsed < 400*time.Millisecond {
		t.Fatalf("expected 5 requests beyond the burst to take ~500ms, took %s", elapsed)
	}
}

func TestProviderHTTPClient_LimiterWaitHonoursContext(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	opts := fastOptions()
	opts.RPS = 0.5 // one token, the next one 2s later
	client := NewProviderHTTPClient("test", opts)

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	start := time.Now()
	resp, err = client.Do(req)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected the limiter wait to fail under a short deadline")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("limiter wait ignored the deadline, took %s", elapsed)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected only the first request to reach the server, got %d", got)
	}
}

func TestProviderLogger_DropsDebugAndRedactsKeys(t *testing.T) {
	var buf bytes.Buffer
	l := providerLogger{log.New(&buf, "", 0)}

	u, _ := url.Parse("https://api.example.com/route?key=secret")
	l.Debug("performing request", "method", "GET", "url", u)
	l.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("expected no debug/info output, got %q", buf.String())
	}

	l.Error("request failed", "url", u, "error", &url.Error{Op: "Get", URL: u.String(), Err: errors.New("boom")})
	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Fatalf("api key leaked into log: %q", out)
	}
	if !strings.Contains(out, "https://api.example.com/route") || !strings.Contains(out, "boom") {
		t.Fatalf("unexpected log line: %q", out)
	}
}
