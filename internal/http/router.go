// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/http/handlers"
	"ecoroute/internal/http/middleware"
	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/plan"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
)

type RouterDeps struct {
	Vehicles  *vehicle.Service
	Plans     *plan.Service
	Optimizer *routing.Optimizer
	Emission  *emission.Calculator
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api/v1")

	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles)
	api.POST("/vehicles", vehicleHandler.Register)
	api.GET("/vehicles", vehicleHandler.List)
	api.GET("/vehicles/:id", vehicleHandler.Get)
	api.PUT("/vehicles/:id/load", vehicleHandler.UpdateLoad)

	planHandler := handlers.NewPlanHandler(deps.Plans)
	api.POST("/plans", planHandler.Create)
	api.GET("/plans/:id", planHandler.Get)
	api.GET("/vehicles/:id/plans", planHandler.ListByVehicle)

	routeHandler := handlers.NewRouteHandler(deps.Optimizer, deps.Vehicles)
	api.POST("/routes/optimize", routeHandler.Optimize)

	emissionHandler := handlers.NewEmissionHandler(deps.Emission, deps.Vehicles)
	api.POST("/emissions/estimate", emissionHandler.Estimate)

	return r
}
