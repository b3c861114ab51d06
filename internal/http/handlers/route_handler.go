// README: Route optimization handler (origin/destination trip with ranked alternatives).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

// Defaults for ad-hoc vehicles described only by type and fuel.
const (
	defaultCargoCapacityKg = 1000
	defaultFuelEfficiency  = 3.0 // km/L
	adhocVehicleID         = "adhoc"
)

type RouteHandler struct {
	optimizer *routing.Optimizer
	vehicles  VehicleLookup
}

func NewRouteHandler(optimizer *routing.Optimizer, vehicles VehicleLookup) *RouteHandler {
	return &RouteHandler{optimizer: optimizer, vehicles: vehicles}
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p latLng) location() types.Location { return types.Location{Lat: p.Lat, Lon: p.Lng} }

func toLatLng(l types.Location) latLng { return latLng{Lat: l.Lat, Lng: l.Lon} }

type optimizeReq struct {
	Origin               *latLng  `json:"origin"`
	Destination          *latLng  `json:"destination"`
	Waypoints            []latLng `json:"waypoints"`
	VehicleID            string   `json:"vehicle_id"`
	VehicleType          string   `json:"vehicle_type"`
	FuelType             string   `json:"fuel_type"`
	FuelEfficiency       *float64 `json:"fuel_efficiency"`
	CargoCapacity        *float64 `json:"cargo_capacity"`
	CurrentLoad          *float64 `json:"current_load"`
	OptimizationPriority string   `json:"optimization_priority"`
	DepartureTime        string   `json:"departure_time"`
}

type routeResp struct {
	DistanceKm          float64  `json:"distance_km"`
	DurationMinutes     float64  `json:"duration_minutes"`
	EstimatedEmissionKg float64  `json:"estimated_emissions_kg"`
	FuelCostUSD         float64  `json:"fuel_cost_usd"`
	TrafficDelayMinutes float64  `json:"traffic_delay_minutes"`
	Waypoints           []latLng `json:"waypoints"`
}

type optimizeResp struct {
	RecommendedRoute     routeResp      `json:"recommended_route"`
	AlternativeRoutes    []routeResp    `json:"alternative_routes"`
	EnvironmentalImpact  routing.Impact `json:"environmental_impact"`
	OptimizationPriority string         `json:"optimization_priority"`
}

// Optimize handles POST /api/v1/routes/optimize.
func (h *RouteHandler) Optimize(c *gin.Context) {
	var req optimizeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Origin == nil || req.Destination == nil {
		writeError(c, http.StatusBadRequest, "missing origin or destination")
		return
	}
	var departAt time.Time
	if req.DepartureTime != "" {
		t, err := time.Parse(time.RFC3339, req.DepartureTime)
		if err != nil {
			writeError(c, http.StatusBadRequest, "departure_time must be RFC3339")
			return
		}
		departAt = t
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
	defer cancel()

	v, err := h.resolveVehicle(ctx, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	waypoints := make([]types.Location, len(req.Waypoints))
	for i, w := range req.Waypoints {
		waypoints[i] = w.location()
	}
	res, err := h.optimizer.OptimizeTrip(ctx, routing.TripRequest{
		Vehicle:     v,
		Origin:      req.Origin.location(),
		Destination: req.Destination.location(),
		Waypoints:   waypoints,
		Priority:    strings.ToLower(strings.TrimSpace(req.OptimizationPriority)),
		DepartAt:    departAt,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := optimizeResp{
		RecommendedRoute:     toRouteResp(res.Recommended),
		AlternativeRoutes:    make([]routeResp, len(res.Alternatives)),
		EnvironmentalImpact:  res.Impact,
		OptimizationPriority: res.Priority,
	}
	for i, alt := range res.Alternatives {
		resp.AlternativeRoutes[i] = toRouteResp(alt)
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *RouteHandler) resolveVehicle(ctx context.Context, req optimizeReq) (vehicle.Vehicle, error) {
	if req.VehicleID != "" && h.vehicles != nil {
		v, err := h.vehicles.Get(ctx, types.ID(req.VehicleID))
		if err != nil {
			return vehicle.Vehicle{}, err
		}
		return *v, nil
	}

	v := vehicle.Vehicle{
		ID:            adhocVehicleID,
		Type:          req.VehicleType,
		FuelType:      strings.ToLower(strings.TrimSpace(req.FuelType)),
		CargoCapacity: defaultCargoCapacityKg,
	}
	if v.FuelType != "electric" {
		v.FuelEfficiency = defaultFuelEfficiency
	}
	if req.FuelEfficiency != nil {
		v.FuelEfficiency = *req.FuelEfficiency
	}
	if req.CargoCapacity != nil {
		v.CargoCapacity = *req.CargoCapacity
	}
	if req.CurrentLoad != nil {
		v.CurrentLoad = *req.CurrentLoad
	}
	return v, v.Validate()
}

func toRouteResp(r routing.TripRoute) routeResp {
	out := routeResp{
		DistanceKm:          r.DistanceKm,
		DurationMinutes:     r.DurationMinutes,
		EstimatedEmissionKg: r.EmissionsKg,
		FuelCostUSD:         r.FuelCostUSD,
		TrafficDelayMinutes: r.TrafficDelayMinutes,
		Waypoints:           make([]latLng, len(r.Waypoints)),
	}
	for i, w := range r.Waypoints {
		out.Waypoints[i] = toLatLng(w)
	}
	return out
}
