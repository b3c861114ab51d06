// README: AQICN client for weather and air-quality data near a location.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ecoroute/internal/types"
)

const DefaultAQICNBaseURL = "https://api.aqicn.org/v2"

type AQICNClient struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewAQICNClient creates a client; httpClient should be the shared retrying provider client.
func NewAQICNClient(httpClient *http.Client, baseURL, token string) *AQICNClient {
	if baseURL == "" {
		baseURL = DefaultAQICNBaseURL
	}
	return &AQICNClient{http: httpClient, baseURL: baseURL, token: token}
}

func (c *AQICNClient) Conditions(ctx context.Context, loc types.Location) (Conditions, error) {
	q := url.Values{}
	q.Set("token", c.token)
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	endpoint := c.baseURL + "/nearest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("aqicn: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("aqicn: do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Conditions{}, fmt.Errorf("aqicn: bad status: %s", resp.Status)
	}

	var out Conditions
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Conditions{}, fmt.Errorf("aqicn: decode: %w", err)
	}
	return out, nil
}
