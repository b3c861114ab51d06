// README: TomTom Routing API client (truck travel mode with live traffic).
package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultTomTomBaseURL = "https://api.tomtom.com/routing/1"

type TomTomClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewTomTomClient(httpClient *http.Client, baseURL, apiKey string) *TomTomClient {
	if baseURL == "" {
		baseURL = DefaultTomTomBaseURL
	}
	return &TomTomClient{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}

type tomtomResponse struct {
	Routes []struct {
		Summary Summary `json:"summary"`
	} `json:"routes"`
}

func (c *TomTomClient) Routes(ctx context.Context, req Request) ([]Summary, error) {
	endpoint := fmt.Sprintf("%s/calculateRoute/%s,%s:%s,%s/json", c.baseURL,
		coord(req.From.Lat), coord(req.From.Lon), coord(req.To.Lat), coord(req.To.Lon))

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("traffic", "true")
	q.Set("travelMode", "truck")
	if req.MaxAlternatives > 0 {
		q.Set("maxAlternatives", strconv.Itoa(req.MaxAlternatives))
	}
	if !req.DepartAt.IsZero() {
		q.Set("departAt", req.DepartAt.Format(time.RFC3339))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tomtom: build request: %w", err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tomtom: do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("tomtom: bad status: %s", resp.Status)
	}

	var payload tomtomResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tomtom: decode: %w", err)
	}
	if len(payload.Routes) == 0 {
		return nil, ErrNoRoute
	}
	out := make([]Summary, len(payload.Routes))
	for i, r := range payload.Routes {
		out[i] = r.Summary
	}
	return out, nil
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
