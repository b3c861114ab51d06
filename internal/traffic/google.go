// README: Google Maps Directions client; traffic delay is duration in traffic minus free-flow duration.
package traffic

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"googlemaps.github.io/maps"

	"ecoroute/internal/types"
)

type GoogleClient struct {
	client *maps.Client
}

// NewGoogleClient creates a Directions-backed provider with the given API key.
// Extra options (base URL, HTTP client) are applied after the key.
func NewGoogleClient(apiKey string, httpClient *http.Client, opts ...maps.ClientOption) (*GoogleClient, error) {
	all := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if httpClient != nil {
		all = append(all, maps.WithHTTPClient(httpClient))
	}
	all = append(all, opts...)
	client, err := maps.NewClient(all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleClient{client: client}, nil
}

func (g *GoogleClient) Routes(ctx context.Context, req Request) ([]Summary, error) {
	departure := "now"
	if !req.DepartAt.IsZero() {
		departure = strconv.FormatInt(req.DepartAt.Unix(), 10)
	}
	r := &maps.DirectionsRequest{
		Origin:        latLng(req.From),
		Destination:   latLng(req.To),
		Mode:          maps.TravelModeDriving,
		Alternatives:  req.MaxAlternatives > 0,
		DepartureTime: departure,
		TrafficModel:  maps.TrafficModelBestGuess,
	}

	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 {
		return nil, ErrNoRoute
	}

	limit := len(routes)
	if req.MaxAlternatives >= 0 && limit > req.MaxAlternatives+1 {
		limit = req.MaxAlternatives + 1
	}
	out := make([]Summary, 0, limit)
	for _, route := range routes[:limit] {
		if len(route.Legs) == 0 {
			continue
		}
		var s Summary
		for _, leg := range route.Legs {
			s.LengthInMeters += leg.Distance.Meters
			travel := leg.Duration
			if leg.DurationInTraffic > 0 {
				travel = leg.DurationInTraffic
			}
			s.TravelTimeInSeconds += int(travel.Seconds())
			if delay := leg.DurationInTraffic - leg.Duration; delay > 0 {
				s.TrafficDelayInSeconds += int(delay.Seconds())
			}
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrNoRoute
	}
	return out, nil
}

func latLng(l types.Location) string {
	return coord(l.Lat) + "," + coord(l.Lon)
}
