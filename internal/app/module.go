// README: fx module assembling the API: config, infra clients, providers, services, gin engine and HTTP server.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"ecoroute/internal/advisor"
	"ecoroute/internal/config"
	httptransport "ecoroute/internal/http"
	"ecoroute/internal/infra"
	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/plan"
	"ecoroute/internal/modules/quota"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/traffic"
	"ecoroute/internal/weather"
)

var Module = fx.Module("ecoroute",
	fx.Provide(
		config.Load,
		provideDB,
		provideRedis,
		provideQuota,
		provideTraffic,
		provideWeather,
		NewCalculator,
		NewOptimizer,
		provideAdvisor,
		provideVehicles,
		providePlans,
		provideRouter,
		provideServer,
	),
	fx.Invoke(startServer),
)

func provideDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(db.Close))
	return db, nil
}

func provideRedis(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	rdb := infra.NewRedis(cfg.Redis.Addr)
	lc.Append(fx.StopHook(rdb.Close))
	return rdb
}

func provideQuota(db *pgxpool.Pool, cfg config.Config) *quota.Service {
	return quota.NewService(quota.NewStore(db), cfg.Providers.DailyBudget)
}

func provideTraffic(cfg config.Config, q *quota.Service) (traffic.Provider, error) {
	return NewTrafficProvider(cfg, q)
}

func provideWeather(cfg config.Config, q *quota.Service, rdb *redis.Client) (weather.Provider, error) {
	return NewWeatherProvider(cfg, q, rdb)
}

func provideAdvisor(lc fx.Lifecycle, cfg config.Config) advisor.Advisor {
	adv, closeFn := NewAdvisor(context.Background(), cfg)
	lc.Append(fx.StopHook(closeFn))
	return adv
}

func provideVehicles(db *pgxpool.Pool) *vehicle.Service {
	return vehicle.NewService(vehicle.NewStore(db))
}

func providePlans(db *pgxpool.Pool, vehicles *vehicle.Service, opt *routing.Optimizer, adv advisor.Advisor) *plan.Service {
	return plan.NewService(plan.NewStore(db), vehicles, opt, adv)
}

func provideRouter(vehicles *vehicle.Service, plans *plan.Service, opt *routing.Optimizer, calc *emission.Calculator) *gin.Engine {
	return httptransport.NewRouter(httptransport.RouterDeps{
		Vehicles:  vehicles,
		Plans:     plans,
		Optimizer: opt,
		Emission:  calc,
	})
}

func provideServer(cfg config.Config, engine *gin.Engine) *http.Server {
	return httptransport.NewServer(cfg.HTTP.Addr, engine)
}

func startServer(lc fx.Lifecycle, server *http.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at %s", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("http server: %v", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}
