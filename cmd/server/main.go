package main

import (
	"collection-route-service/internal/adapters/link"
	"collection-route-service/internal/api"
	"collection-route-service/internal/api/handlers"
	"collection-route-service/internal/app"
	"collection-route-service/internal/config"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}
	app.SetupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.Close()

	points := &handlers.PickupPointHandler{Source: deps.Source, Threshold: cfg.ActivationThreshold}
	plans := &handlers.PlanHandler{
		Source:    deps.Source,
		Oracle:    deps.Oracle,
		Publisher: deps.Publisher,
		Link:      link.GoogleMapsLink,
		Defaults: handlers.PlanDefaults{
			Depot:               cfg.Depot.Coordinates(),
			Fleet:               cfg.FleetValue(),
			ActivationThreshold: cfg.ActivationThreshold,
			TimeBudget:          cfg.TimeBudget,
			MatrixParallelism:   cfg.MatrixParallelism,
		},
	}
	router := api.NewRouter(points, plans)

	// Write timeout covers a cold matrix build plus the solver budget.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	log.WithField("addr", srv.Addr).Info("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
