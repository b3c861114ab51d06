// README: Batch planner; reads a vehicle profile and a location list, plans every leg, logs summaries and writes route_output.json.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"ecoroute/internal/app"
	"ecoroute/internal/config"
	"ecoroute/internal/modules/routing"
	"ecoroute/internal/modules/vehicle"
	"ecoroute/internal/types"
)

func main() {
	vehiclePath := flag.String("vehicle", "vehicle_data.json", "vehicle profile JSON file")
	locationsPath := flag.String("locations", "locations.json", "locations file (.json or .csv); the first entry is the start")
	outPath := flag.String("out", "route_output.json", "route output JSON file")
	csvPath := flag.String("csv", "", "optional per-segment CSV export")
	strategy := flag.String("strategy", routing.StrategySequential, "destination ordering: sequential or nearest_neighbor")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *vehiclePath, *locationsPath, *outPath, *csvPath, *strategy); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, vehiclePath, locationsPath, outPath, csvPath, strategyName string) error {
	log.Println("Initializing route planner")
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	v, err := vehicle.LoadFile(vehiclePath)
	if err != nil {
		return fmt.Errorf("loading vehicle data: %w", err)
	}
	log.Printf("Loaded vehicle data for vehicle ID: %s", v.ID)

	locations, err := loadLocations(locationsPath)
	if err != nil {
		return fmt.Errorf("loading locations: %w", err)
	}
	log.Printf("Loaded %d locations", len(locations))
	if len(locations) == 0 {
		return fmt.Errorf("loading locations: %s has no entries", locationsPath)
	}

	strategy, err := routing.StrategyByName(strategyName)
	if err != nil {
		return err
	}

	// No quota store or cache outside the API; fallbacks still apply.
	tp, err := app.NewTrafficProvider(cfg, nil)
	if err != nil {
		return err
	}
	wp, err := app.NewWeatherProvider(cfg, nil, nil)
	if err != nil {
		return err
	}
	calc, err := app.NewCalculator(cfg)
	if err != nil {
		return err
	}
	optimizer := app.NewOptimizer(cfg, tp, wp, calc).WithStrategy(strategy)

	log.Println("Planning routes...")
	routes, err := optimizer.OptimizeRoute(ctx, v, locations[0], locations[1:])
	if err != nil {
		return fmt.Errorf("route planning: %w", err)
	}

	for i := range routes {
		s := routing.Summarize(&routes[i])
		n := i + 1
		log.Printf("Route %d Summary:", n)
		log.Printf("Distance: %.2f km", s.TotalDistanceKm)
		log.Printf("Duration: %.2f minutes", s.TotalDurationMins)
		log.Printf("Emissions: %.2f kg CO2", s.TotalEmissionsKg)
		if s.WeatherAlerts {
			log.Printf("WARNING: weather alerts present for route %d", n)
		}
		if s.AirQualityAlerts {
			log.Printf("WARNING: air quality alerts present for route %d", n)
		}
	}

	if err := writeFile(outPath, func(f *os.File) error { return routing.WriteJSON(f, routes) }); err != nil {
		return err
	}
	log.Printf("Route data saved to %s", outPath)

	if csvPath != "" {
		if err := writeFile(csvPath, func(f *os.File) error { return routing.WriteCSV(f, routes) }); err != nil {
			return err
		}
		log.Printf("Segment CSV saved to %s", csvPath)
	}
	return nil
}

func loadLocations(path string) ([]types.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return routing.ReadLocationsCSV(f)
	}
	return routing.ReadLocationsJSON(f)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
