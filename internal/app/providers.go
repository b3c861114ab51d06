// README: Builds the provider chains (quota guard, cache, simulated fallback) from config.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"ecoroute/internal/advisor"
	"ecoroute/internal/config"
	"ecoroute/internal/infra"
	"ecoroute/internal/modules/emission"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/traffic"
	"ecoroute/internal/weather"
)

// Budget is satisfied by *quota.Service.
type Budget interface {
	Use(ctx context.Context, provider string) error
}

func httpOptions(cfg config.Config) infra.HTTPClientOptions {
	opts := infra.DefaultHTTPClientOptions()
	opts.RPS = cfg.Providers.RPS
	return opts
}

// NewTrafficProvider returns Fallback(Guard(live client)). A nil budget skips the guard.
func NewTrafficProvider(cfg config.Config, budget Budget) (traffic.Provider, error) {
	name := cfg.Providers.Traffic
	var live traffic.Provider
	switch name {
	case config.ProviderSimulated:
		return traffic.Simulated{}, nil
	case config.ProviderTomTom:
		live = traffic.NewTomTomClient(infra.NewProviderHTTPClient(name, httpOptions(cfg)), "", cfg.Providers.TomTomKey)
	case config.ProviderGoogle:
		g, err := traffic.NewGoogleClient(cfg.Providers.GoogleMapsKey, infra.NewProviderHTTPClient(name, httpOptions(cfg)))
		if err != nil {
			return nil, err
		}
		live = g
	default:
		return nil, fmt.Errorf("unknown traffic provider %q", name)
	}
	if budget != nil {
		live = traffic.Guard(live, budget, name)
	}
	return traffic.Fallback(live), nil
}

// NewWeatherProvider returns Fallback(Cache(Guard(live client))). Nil budget or
// redis client skip the corresponding layer.
func NewWeatherProvider(cfg config.Config, budget Budget, rdb *redis.Client) (weather.Provider, error) {
	name := cfg.Providers.Weather
	var live weather.Provider
	switch name {
	case config.ProviderSimulated:
		return weather.Simulated{}, nil
	case config.ProviderAQICN:
		live = weather.NewAQICNClient(infra.NewProviderHTTPClient(name, httpOptions(cfg)), "", cfg.Providers.AQICNKey)
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
	if budget != nil {
		live = weather.Guard(live, budget, name)
	}
	if rdb != nil {
		live = weather.Cache(live, rdb, cfg.Providers.WeatherTTL)
	}
	return weather.Fallback(live), nil
}

func NewCalculator(cfg config.Config) (*emission.Calculator, error) {
	factors, err := emission.LoadFactors(cfg.Emission.FactorsFile)
	if err != nil {
		return nil, err
	}
	return emission.NewCalculator(factors), nil
}

func NewOptimizer(cfg config.Config, tp traffic.Provider, wp weather.Provider, calc *emission.Calculator) *routing.Optimizer {
	return routing.NewOptimizer(tp, wp, calc, routing.Options{
		MaxWaypoints:   cfg.Routing.MaxWaypoints,
		LegConcurrency: cfg.Routing.LegConcurrency,
	})
}

// NewAdvisor prefers Gemini when a key is configured. The returned close func is never nil.
func NewAdvisor(ctx context.Context, cfg config.Config) (advisor.Advisor, func()) {
	if cfg.AI.GeminiKey == "" {
		return advisor.RuleBased{}, func() {}
	}
	g, err := advisor.NewGemini(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Printf("advisor: gemini unavailable, using rule-based tips: %v", err)
		return advisor.RuleBased{}, func() {}
	}
	return advisor.WithFallback(g, advisor.RuleBased{}), func() { _ = g.Close() }
}
