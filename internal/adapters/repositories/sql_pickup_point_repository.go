package repositories

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLPickupPointRepository is a Postgres-backed PickupPointSource.
type SQLPickupPointRepository struct{ DB *sql.DB }

func NewSQLPickupPointRepository(db *sql.DB) *SQLPickupPointRepository {
	return &SQLPickupPointRepository{DB: db}
}

// ListPickupPoints returns all stored points ordered by id.
func (s *SQLPickupPointRepository) ListPickupPoints(ctx context.Context) (_ []domain.PickupPoint, err error) {
	defer obs.Time(ctx, "pickup_points.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql pickup point repository: DB is nil")
	}

	query := `
	SELECT
		id,
		lat,
		lon,
		fill
	FROM pickup_points
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pickup points: query pickup_points table: %w", err)
	}
	defer rows.Close()

	points := make([]domain.PickupPoint, 0, 64)
	for rows.Next() {
		var p domain.PickupPoint
		if err := rows.Scan(&p.ID, &p.Coordinates.Lat, &p.Coordinates.Lon, &p.Fill); err != nil {
			return nil, fmt.Errorf("list pickup points: scan row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pickup points: row iteration: %w", err)
	}

	return points, nil
}
