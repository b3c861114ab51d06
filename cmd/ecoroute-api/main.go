// README: Entry point for the HTTP API; fx wires config, Postgres, Redis, providers, services and the gin server.
package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"ecoroute/internal/app"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	fx.New(app.Module).Run()
}
