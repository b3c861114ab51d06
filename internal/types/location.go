// README: Common identifier and location value objects used across modules.
package types

import (
	"errors"
	"fmt"
	"math"
)

type ID string

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Location is a geographic point with an optional human readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}

func (l Location) Validate() error {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lon) || math.IsInf(l.Lat, 0) || math.IsInf(l.Lon, 0) {
		return fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidCoordinates)
	}
	if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("%w: (%f, %f) out of range", ErrInvalidCoordinates, l.Lat, l.Lon)
	}
	return nil
}

func (l Location) String() string {
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("%.5f,%.5f", l.Lat, l.Lon)
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two locations.
func HaversineKm(a, b Location) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
