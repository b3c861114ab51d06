// README: Retrying, rate-limited HTTP client shared by the external traffic and weather providers.
package infra

import (
	"context"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// HTTPClientOptions mirrors the retry policy of the provider integrations:
// three retries with 1s/2s/4s backoff on transient statuses.
type HTTPClientOptions struct {
	RetryMax        int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	ConnectTimeout  time.Duration
	ResponseTimeout time.Duration
	// RPS limits outgoing requests (including retries). Zero disables limiting.
	RPS float64
}

func DefaultHTTPClientOptions() HTTPClientOptions {
	return HTTPClientOptions{
		RetryMax:        3,
		RetryWaitMin:    1 * time.Second,
		RetryWaitMax:    4 * time.Second,
		ConnectTimeout:  5 * time.Second,
		ResponseTimeout: 15 * time.Second,
		RPS:             5,
	}
}

var retryStatuses = map[int]struct{}{
	http.StatusRequestTimeout:      {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// NewProviderHTTPClient returns a standard *http.Client whose transport retries
// transient failures and waits on a token bucket before every attempt.
func NewProviderHTTPClient(name string, opts HTTPClientOptions) *http.Client {
	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ResponseTimeout,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
	}
	if opts.RPS > 0 {
		burst := int(opts.RPS)
		if burst < 1 {
			burst = 1
		}
		transport = &rateLimitedTransport{
			limiter: rate.NewLimiter(rate.Limit(opts.RPS), burst),
			next:    transport,
		}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Transport: transport}
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = opts.RetryWaitMin
	rc.RetryWaitMax = opts.RetryWaitMax
	rc.CheckRetry = checkRetry
	rc.Logger = providerLogger{log.New(os.Stderr, "["+name+"] ", log.LstdFlags)}
	return rc.StandardClient()
}

// providerLogger keeps warnings and errors only, with query strings removed
// from logged URLs. Provider URLs carry API keys.
type providerLogger struct {
	l *log.Logger
}

func (p providerLogger) Error(msg string, kv ...interface{}) {
	p.l.Println(append([]interface{}{"ERROR", msg}, redactURLs(kv)...)...)
}

func (p providerLogger) Warn(msg string, kv ...interface{}) {
	p.l.Println(append([]interface{}{"WARN", msg}, redactURLs(kv)...)...)
}

func (providerLogger) Info(string, ...interface{}) {}

func (providerLogger) Debug(string, ...interface{}) {}

func redactURLs(kv []interface{}) []interface{} {
	out := make([]interface{}, len(kv))
	for i, v := range kv {
		switch x := v.(type) {
		case *url.URL:
			if x != nil {
				stripped := *x
				stripped.RawQuery = ""
				v = stripped.String()
			}
		case *url.Error:
			stripped := *x
			stripped.URL = stripQuery(x.URL)
			v = &stripped
		}
		out[i] = v
	}
	return out
}

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	_, retry := retryStatuses[resp.StatusCode]
	return retry, nil
}

type rateLimitedTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
