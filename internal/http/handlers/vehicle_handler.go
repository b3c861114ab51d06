// README: Vehicle registry handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

type VehicleHandler struct {
	vehicles *vehicle.Service
}

func NewVehicleHandler(svc *vehicle.Service) *VehicleHandler {
	return &VehicleHandler{vehicles: svc}
}

// Register handles POST /api/v1/vehicles.
func (h *VehicleHandler) Register(c *gin.Context) {
	var req vehicle.Vehicle
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !isValidID(string(req.ID)) {
		writeError(c, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := h.vehicles.Register(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, v)
}

func (h *VehicleHandler) List(c *gin.Context) {
	list, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if list == nil {
		list = []*vehicle.Vehicle{}
	}
	writeJSON(c, http.StatusOK, map[string]any{"vehicles": list})
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := h.vehicles.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

type updateLoadReq struct {
	CurrentLoad *float64 `json:"current_load"`
}

// UpdateLoad handles PUT /api/v1/vehicles/:id/load.
func (h *VehicleHandler) UpdateLoad(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	var req updateLoadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CurrentLoad == nil {
		writeError(c, http.StatusBadRequest, "missing current_load")
		return
	}
	v, err := h.vehicles.UpdateLoad(c.Request.Context(), vehicle.UpdateLoadCommand{
		VehicleID:   types.ID(id),
		CurrentLoad: *req.CurrentLoad,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}
