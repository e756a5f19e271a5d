package config

import (
	"collection-route-service/internal/domain"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

type LatLon struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

func (l LatLon) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: l.Lat, Lon: l.Lon}
}

type Config struct {
	LogLevel string `yaml:"log_level"`
	Port     string `yaml:"port"`

	Depot LatLon `yaml:"depot"`
	Fleet struct {
		Vehicles int `yaml:"vehicles"`
		Capacity int `yaml:"capacity"`
	} `yaml:"fleet"`
	ActivationThreshold int           `yaml:"activation_threshold"`
	TimeBudget          time.Duration `yaml:"time_budget"`
	MatrixParallelism   int           `yaml:"matrix_parallelism"`

	Graph struct {
		CacheFile    string  `yaml:"cache_file"`
		OSMFile      string  `yaml:"osm_file"`
		Center       LatLon  `yaml:"center"`
		RadiusMeters float64 `yaml:"radius_meters"`
	} `yaml:"graph"`

	// Source selects where pickup points come from: "http" or "db".
	Source      string `yaml:"source"`
	SnapshotURL string `yaml:"snapshot_url"`
	PublishURL  string `yaml:"publish_url"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	ORSAPIKey   string `yaml:"ors_api_key"`
}

// Default returns the configuration of the Bergisch Gladbach collection tour.
func Default() Config {
	var c Config
	c.LogLevel = "info"
	c.Port = "8080"
	c.Depot = LatLon{Lat: 50.982761, Lon: 7.118816}
	c.Fleet.Vehicles = domain.DefaultVehicleCount
	c.Fleet.Capacity = domain.DefaultVehicleCapacity
	c.ActivationThreshold = domain.ActivationThreshold
	c.TimeBudget = time.Second
	c.MatrixParallelism = 5
	c.Graph.CacheFile = "data/graph.gob"
	c.Graph.OSMFile = "data/region.osm.pbf"
	c.Graph.Center = LatLon{Lat: 50.991172, Lon: 7.123864}
	c.Graph.RadiusMeters = 5000
	c.Source = "http"
	c.SnapshotURL = "https://altkleider.davidhojczyk.de/api/container/list"
	return c
}

// Load reads defaults, then the optional YAML file at path, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = Get("LOG_LEVEL", c.LogLevel)
	c.Port = Get("PORT", c.Port)
	c.Graph.CacheFile = Get("GRAPH_CACHE_FILE", c.Graph.CacheFile)
	c.Graph.OSMFile = Get("OSM_FILE", c.Graph.OSMFile)
	c.Source = Get("SOURCE", c.Source)
	c.SnapshotURL = Get("SNAPSHOT_URL", c.SnapshotURL)
	c.PublishURL = Get("PUBLISH_URL", c.PublishURL)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = Get("REDIS_URL", c.RedisURL)
	c.ORSAPIKey = Get("ORS_API_KEY", c.ORSAPIKey)

	floats := []struct {
		key string
		dst *float64
	}{
		{"DEPOT_LAT", &c.Depot.Lat},
		{"DEPOT_LON", &c.Depot.Lon},
		{"GRAPH_CENTER_LAT", &c.Graph.Center.Lat},
		{"GRAPH_CENTER_LON", &c.Graph.Center.Lon},
		{"GRAPH_RADIUS_METERS", &c.Graph.RadiusMeters},
	}
	for _, f := range floats {
		v := Get(f.key, "")
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("env %s: %w", f.key, err)
		}
		*f.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"FLEET_VEHICLES", &c.Fleet.Vehicles},
		{"FLEET_CAPACITY", &c.Fleet.Capacity},
		{"ACTIVATION_THRESHOLD", &c.ActivationThreshold},
		{"MATRIX_PARALLELISM", &c.MatrixParallelism},
	}
	for _, i := range ints {
		v := Get(i.key, "")
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", i.key, err)
		}
		*i.dst = parsed
	}

	if v := Get("TIME_BUDGET", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env TIME_BUDGET: %w", err)
		}
		c.TimeBudget = d
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := domain.NewFleet(c.Fleet.Vehicles, c.Fleet.Capacity); err != nil {
		return err
	}
	if c.ActivationThreshold < 0 {
		return fmt.Errorf("activation threshold must be non-negative (got %d)", c.ActivationThreshold)
	}
	if c.TimeBudget < 0 {
		return fmt.Errorf("time budget must be non-negative (got %s)", c.TimeBudget)
	}
	switch c.Source {
	case "http":
		if c.SnapshotURL == "" {
			return errors.New("snapshot url is required for the http source")
		}
	case "db":
		if c.DatabaseURL == "" {
			return errors.New("database url is required for the db source")
		}
	default:
		return fmt.Errorf("unknown pickup point source %q", c.Source)
	}
	if c.MatrixParallelism < 1 {
		return fmt.Errorf("matrix parallelism must be positive (got %d)", c.MatrixParallelism)
	}
	return nil
}

// FleetValue returns the validated fleet.
func (c Config) FleetValue() domain.Fleet {
	return domain.Fleet{VehicleCount: c.Fleet.Vehicles, Capacity: c.Fleet.Capacity}
}
