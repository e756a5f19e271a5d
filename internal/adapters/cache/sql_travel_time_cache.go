package cache

import (
	"collection-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLTravelTimeCache is a Postgres-backed cache for origin->destination travel times.
// Keys are coordinate strings as produced by domain.Coordinates.Key.
type SQLTravelTimeCache struct {
	DB *sql.DB
}

func NewSQLTravelTimeCache(db *sql.DB) *SQLTravelTimeCache {
	return &SQLTravelTimeCache{DB: db}
}

// GetMany fetches cached travel times for one origin and multiple destinations.
func (s *SQLTravelTimeCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]int, err error) {
	defer obs.Time(ctx, "traveltime.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("travel time cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get travel time cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]int{}, nil
	}

	q := `
	SELECT destination, duration_seconds
	FROM travel_time_cache
	WHERE origin = $1
		AND destination = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, origin, uniq)
	if err != nil {
		return nil, fmt.Errorf("get travel time cache: query travel_time_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int, len(uniq))
	for rows.Next() {
		var dest string
		var seconds int
		if err := rows.Scan(&dest, &seconds); err != nil {
			return nil, fmt.Errorf("get travel time cache: scan rows: %w", err)
		}
		out[dest] = seconds
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get travel time cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany stores many travel times for a single origin in one transaction.
func (s *SQLTravelTimeCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]int,
) error {
	if s.DB == nil {
		return errors.New("travel time cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert travel time cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert travel time cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO travel_time_cache (origin, destination, duration_seconds)
	VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds,
		updated_at = now();
	`)
	if err != nil {
		return fmt.Errorf("insert travel time cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, seconds := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert travel time cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, seconds); err != nil {
			return fmt.Errorf("insert travel time cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert travel time cache commit: %w", err)
	}

	return nil
}

func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
