// Package app assembles adapters from configuration for the cmd binaries.
package app

import (
	"collection-route-service/internal/adapters/cache"
	"collection-route-service/internal/adapters/distance"
	"collection-route-service/internal/adapters/link"
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/adapters/snapshot"
	"collection-route-service/internal/config"
	"collection-route-service/internal/platform/db"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/roadgraph"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Deps holds the adapters a planning run needs. Close releases them.
type Deps struct {
	Source    ports.PickupPointSource
	Oracle    ports.DistanceOracle
	Publisher ports.LinkPublisher

	closers []func() error
}

func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// SetupLogging applies the configured level and a text formatter with full timestamps.
func SetupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// Build wires the pickup point source, the distance oracle with its optional
// travel time cache, and the optional link publisher.
func Build(ctx context.Context, cfg config.Config) (_ *Deps, err error) {
	deps := &Deps{}
	defer func() {
		if err != nil {
			_ = deps.Close()
		}
	}()

	var database *sql.DB
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		database, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, database.Close)
	}

	switch cfg.Source {
	case "db":
		if database == nil {
			return nil, errors.New("db source requires DATABASE_URL")
		}
		deps.Source = repositories.NewSQLPickupPointRepository(database)
	default:
		deps.Source, err = snapshot.NewHTTPSource(cfg.SnapshotURL, nil)
		if err != nil {
			return nil, err
		}
	}

	oracle, err := buildOracle(ctx, cfg)
	if err != nil {
		return nil, err
	}

	travelCache, err := buildCache(cfg, database, deps)
	if err != nil {
		return nil, err
	}
	if travelCache != nil {
		oracle = distance.NewCachedOracle(oracle, travelCache)
	}
	deps.Oracle = oracle

	if cfg.PublishURL != "" {
		deps.Publisher, err = link.NewHTTPPublisher(cfg.PublishURL, nil)
		if err != nil {
			return nil, err
		}
	}

	return deps, nil
}

func buildOracle(ctx context.Context, cfg config.Config) (ports.DistanceOracle, error) {
	if cfg.ORSAPIKey != "" {
		log.Info("using OpenRouteService travel times")
		return distance.NewORSOracle(cfg.ORSAPIKey)
	}

	g, err := roadgraph.LoadOrBuild(ctx, cfg.Graph.CacheFile, cfg.Graph.OSMFile, roadgraph.BuildOptions{
		Center:       cfg.Graph.Center.Coordinates(),
		RadiusMeters: cfg.Graph.RadiusMeters,
	})
	if err != nil {
		return nil, fmt.Errorf("road graph: %w", err)
	}
	log.WithFields(log.Fields{"nodes": g.NodeCount(), "edges": g.EdgeCount()}).Info("using road graph travel times")
	return roadgraph.NewOracle(g), nil
}

// buildCache prefers Redis, then Postgres; without either travel times are not cached.
func buildCache(cfg config.Config, database *sql.DB, deps *Deps) (ports.TravelTimeCache, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		deps.closers = append(deps.closers, client.Close)
		return cache.NewRedisTravelTimeCache(client, 7*24*time.Hour), nil
	}
	if database != nil {
		return cache.NewSQLTravelTimeCache(database), nil
	}
	return nil, nil
}
