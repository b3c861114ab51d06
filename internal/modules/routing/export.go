// README: Route export (route_output.json, CSV) and location import (JSON, CSV).
package routing

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"ecoroute/internal/types"
)

type outputSegment struct {
	Start     types.Location `json:"start"`
	End       types.Location `json:"end"`
	Distance  float64        `json:"distance"`
	Duration  float64        `json:"duration"`
	Emissions float64        `json:"emissions"`
}

type outputRoute struct {
	TotalDistance  float64         `json:"total_distance"`
	TotalDuration  float64         `json:"total_duration"`
	TotalEmissions float64         `json:"total_emissions"`
	Segments       []outputSegment `json:"segments"`
}

// WriteJSON writes routes in the route_output.json layout.
func WriteJSON(w io.Writer, routes []Route) error {
	out := make([]outputRoute, len(routes))
	for i, r := range routes {
		segs := make([]outputSegment, len(r.Segments))
		for j, s := range r.Segments {
			segs[j] = outputSegment{Start: s.Start, End: s.End, Distance: s.Distance, Duration: s.Duration, Emissions: s.Emissions}
		}
		out[i] = outputRoute{
			TotalDistance:  r.TotalDistance,
			TotalDuration:  r.TotalDuration,
			TotalEmissions: r.TotalEmissions,
			Segments:       segs,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type segmentRow struct {
	Route        int     `csv:"route"`
	StartAddress string  `csv:"start_address"`
	StartLat     float64 `csv:"start_lat"`
	StartLon     float64 `csv:"start_lon"`
	EndAddress   string  `csv:"end_address"`
	EndLat       float64 `csv:"end_lat"`
	EndLon       float64 `csv:"end_lon"`
	DistanceKm   float64 `csv:"distance_km"`
	DurationMin  float64 `csv:"duration_min"`
	DelayMin     float64 `csv:"traffic_delay_min"`
	EmissionsKg  float64 `csv:"emissions_kg"`
}

// WriteCSV writes one row per segment; route numbers start at 1.
func WriteCSV(w io.Writer, routes []Route) error {
	var rows []segmentRow
	for i, r := range routes {
		for _, s := range r.Segments {
			rows = append(rows, segmentRow{
				Route:        i + 1,
				StartAddress: s.Start.Address,
				StartLat:     s.Start.Lat,
				StartLon:     s.Start.Lon,
				EndAddress:   s.End.Address,
				EndLat:       s.End.Lat,
				EndLon:       s.End.Lon,
				DistanceKm:   s.Distance,
				DurationMin:  s.Duration,
				DelayMin:     s.TrafficDelay,
				EmissionsKg:  s.Emissions,
			})
		}
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	var err error
	if len(rows) == 0 {
		err = enc.EncodeHeader(segmentRow{})
	} else {
		err = enc.Encode(rows)
	}
	if err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

type locationRow struct {
	Lat     float64 `csv:"lat"`
	Lon     float64 `csv:"lon"`
	Address string  `csv:"address,omitempty"`
}

// ReadLocationsCSV decodes a lat,lon,address file and validates every row.
func ReadLocationsCSV(r io.Reader) ([]types.Location, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("locations csv: empty input")
		}
		return nil, fmt.Errorf("locations csv: %w", err)
	}

	var rows []locationRow
	if err := dec.Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("locations csv: %w", err)
	}
	out := make([]types.Location, len(rows))
	for i, row := range rows {
		loc := types.Location{Lat: row.Lat, Lon: row.Lon, Address: row.Address}
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("locations csv row %d: %w", i+1, err)
		}
		out[i] = loc
	}
	return out, nil
}

// ReadLocationsJSON decodes the locations.json layout: an array of {lat, lon, address}.
func ReadLocationsJSON(r io.Reader) ([]types.Location, error) {
	var locs []types.Location
	if err := json.NewDecoder(r).Decode(&locs); err != nil {
		return nil, fmt.Errorf("locations json: %w", err)
	}
	for i, loc := range locs {
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("locations json entry %d: %w", i+1, err)
		}
	}
	return locs, nil
}
