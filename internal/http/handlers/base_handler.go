// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/plan"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// VehicleLookup resolves registered vehicles by id.
type VehicleLookup interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
}

// isValidID accepts fleet ids: letters, digits, '-' and '_', at most 64 chars.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

var badRequestErrors = []error{
	vehicle.ErrInvalidVehicle,
	types.ErrInvalidCoordinates,
	emission.ErrNegativeDistance,
	emission.ErrUnknownFuelType,
	routing.ErrTooManyWaypoints,
	routing.ErrUnknownStrategy,
	routing.ErrUnknownPriority,
	plan.ErrInvalidPlan,
}

// writeDomainError maps module errors to HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	switch {
	case errors.Is(err, vehicle.ErrNotFound), errors.Is(err, plan.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "request timed out")
	default:
		log.Printf("http: %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
