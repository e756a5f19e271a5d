// Command planner runs one collection planning pass: fetch the snapshot,
// plan the routes, print the map link and optionally publish it.
package main

import (
	"collection-route-service/internal/adapters/link"
	"collection-route-service/internal/app"
	"collection-route-service/internal/config"
	"collection-route-service/internal/services"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type options struct {
	cfg       config.Config
	publish   bool
	envLoaded bool
}

// loadOptions reads .env before parsing args, so CONFIG_FILE set there
// feeds the -config default.
func loadOptions(args []string) (options, error) {
	var opts options
	opts.envLoaded = godotenv.Load() == nil

	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	configPath := fs.String("config", config.Get("CONFIG_FILE", "config.yaml"), "path to the YAML config file")
	fs.BoolVar(&opts.publish, "publish", false, "post the map link to the configured publish url")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return options{}, err
	}
	opts.cfg = cfg
	return opts, nil
}

func main() {
	opts, err := loadOptions(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	app.SetupLogging(opts.cfg.LogLevel)
	if !opts.envLoaded {
		log.Debug("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts.cfg, opts.publish); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, publish bool) error {
	deps, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if publish && deps.Publisher == nil {
		return fmt.Errorf("-publish needs PUBLISH_URL")
	}

	plan, err := services.PlanCollection(ctx, services.PlanCollectionRequest{
		Depot:               cfg.Depot.Coordinates(),
		Fleet:               cfg.FleetValue(),
		ActivationThreshold: cfg.ActivationThreshold,
		Matrix:              services.MatrixOptions{Parallelism: cfg.MatrixParallelism},
		Solver:              services.SolverOptions{TimeBudget: cfg.TimeBudget},
	}, deps.Source, deps.Oracle)
	if err != nil {
		return err
	}

	if plan.Status == services.StatusInfeasible {
		return fmt.Errorf("run %s: pickup points do not fit into %d vehicles", plan.RunID, cfg.Fleet.Vehicles)
	}

	for _, r := range plan.Solution.Routes {
		if !r.Used() {
			continue
		}
		log.WithFields(log.Fields{
			"vehicle": r.Vehicle,
			"stops":   len(r.Stops()),
			"load":    r.Load,
			"seconds": r.Seconds,
		}).Info("route")
	}

	mapsLink := link.GoogleMapsLink(plan.Depot, plan.Tour)
	fmt.Println(mapsLink)

	if publish {
		if err := deps.Publisher.Publish(ctx, mapsLink); err != nil {
			return err
		}
		log.WithField("run_id", plan.RunID).Info("link published")
	}
	return nil
}
