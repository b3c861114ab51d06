// README: Plan handlers (create, get, list per vehicle).
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/modules/plan"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

const planTimeout = 30 * time.Second

type PlanHandler struct {
	plans *plan.Service
}

func NewPlanHandler(svc *plan.Service) *PlanHandler {
	return &PlanHandler{plans: svc}
}

type createPlanReq struct {
	VehicleID    string           `json:"vehicle_id"`
	Vehicle      *vehicle.Vehicle `json:"vehicle"`
	Start        types.Location   `json:"start"`
	Destinations []types.Location `json:"destinations"`
	Strategy     string           `json:"strategy"`
}

// Create handles POST /api/v1/plans.
func (h *PlanHandler) Create(c *gin.Context) {
	var req createPlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Vehicle == nil && !isValidID(req.VehicleID) {
		writeError(c, http.StatusBadRequest, "missing vehicle or vehicle_id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
	defer cancel()

	p, err := h.plans.Create(ctx, plan.CreateCommand{
		VehicleID:    types.ID(req.VehicleID),
		Vehicle:      req.Vehicle,
		Start:        req.Start,
		Destinations: req.Destinations,
		Strategy:     req.Strategy,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

func (h *PlanHandler) Get(c *gin.Context) {
	p, err := h.plans.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// ListByVehicle handles GET /api/v1/vehicles/:id/plans?limit=N.
func (h *PlanHandler) ListByVehicle(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	plans, err := h.plans.ListByVehicle(c.Request.Context(), types.ID(id), limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"plans": plans})
}
