package repositories

import (
	"collection-route-service/internal/adapters/snapshot"
	"collection-route-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
)

// InitSchema creates the Postgres tables used by the service.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPickupPointsQuery := `
	CREATE TABLE IF NOT EXISTS pickup_points (
		id TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		fill INTEGER NOT NULL CHECK (fill >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createTravelTimeCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_time_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_travel_time_cache_destination_origin
	ON travel_time_cache(destination, origin);
	`

	statements := []string{
		createPickupPointsQuery,
		createTravelTimeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// LoadSeed reads and validates a snapshot JSON file for seeding.
func LoadSeed(jsonPath string) ([]domain.PickupPoint, error) {
	f, err := os.Open(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed pickup points: read %q: %w", jsonPath, err)
	}
	defer f.Close()

	points, err := snapshot.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("seed pickup points: %w", err)
	}

	seen := make(map[string]struct{}, len(points))
	for i, p := range points {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("seed pickup points: item at index %d: id cannot be empty", i+1)
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("seed pickup points: duplicate id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return points, nil
}

// SeedFromJSON upserts the pickup points found in a snapshot JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	points, err := LoadSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed pickup points: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO pickup_points (id, lat, lon, fill)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		fill = EXCLUDED.fill,
		updated_at = now();
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed pickup points: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Coordinates.Lat, p.Coordinates.Lon, p.Fill); err != nil {
			return fmt.Errorf("seed pickup points: insert id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed pickup points: commit tx: %w", err)
	}

	return nil
}
