// README: Emission estimate handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
	"ecoroute/internal/weather"
)

type EmissionHandler struct {
	calc     *emission.Calculator
	vehicles VehicleLookup
}

func NewEmissionHandler(calc *emission.Calculator, vehicles VehicleLookup) *EmissionHandler {
	return &EmissionHandler{calc: calc, vehicles: vehicles}
}

type estimateReq struct {
	Vehicle    *vehicle.Vehicle    `json:"vehicle"`
	VehicleID  string              `json:"vehicle_id"`
	DistanceKm *float64            `json:"distance_km"`
	Weather    *weather.Conditions `json:"weather"`
}

// Estimate handles POST /api/v1/emissions/estimate.
func (h *EmissionHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DistanceKm == nil {
		writeError(c, http.StatusBadRequest, "missing distance_km")
		return
	}

	var v vehicle.Vehicle
	switch {
	case req.Vehicle != nil:
		v = *req.Vehicle
	case req.VehicleID != "" && h.vehicles != nil:
		found, err := h.vehicles.Get(c.Request.Context(), types.ID(req.VehicleID))
		if err != nil {
			writeDomainError(c, err)
			return
		}
		v = *found
	default:
		writeError(c, http.StatusBadRequest, "missing vehicle or vehicle_id")
		return
	}

	var cond weather.Conditions
	if req.Weather != nil {
		cond = *req.Weather
	}
	est, err := h.calc.Estimate(v, *req.DistanceKm, cond)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, est)
}
