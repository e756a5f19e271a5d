// Package snapshot reads pickup-point fill snapshots in the
// [{"id": ..., "lat": ..., "lon": ..., "fill": ...}] JSON format.
package snapshot

import (
	"bytes"
	"collection-route-service/internal/domain"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

type record struct {
	ID   json.RawMessage `json:"id"`
	Lat  *float64        `json:"lat"`
	Lon  *float64        `json:"lon"`
	Fill *int            `json:"fill"`
}

// Decode parses a snapshot. Ids may be JSON strings or numbers.
func Decode(r io.Reader) ([]domain.PickupPoint, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	points := make([]domain.PickupPoint, 0, len(records))
	for i, rec := range records {
		id, err := decodeID(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot: record #%d: %w", i+1, err)
		}
		if rec.Lat == nil || rec.Lon == nil {
			return nil, fmt.Errorf("decode snapshot: record %q: missing coordinates", id)
		}
		if rec.Fill == nil {
			return nil, fmt.Errorf("decode snapshot: record %q: missing fill", id)
		}
		if *rec.Fill < 0 {
			return nil, fmt.Errorf("decode snapshot: record %q: fill %d: %w", id, *rec.Fill, domain.ErrInvalidDemand)
		}

		points = append(points, domain.PickupPoint{
			ID:          id,
			Coordinates: domain.Coordinates{Lat: *rec.Lat, Lon: *rec.Lon},
			Fill:        *rec.Fill,
		})
	}
	return points, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("missing id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("bad id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("bad id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", fmt.Errorf("bad id %s", raw)
	}
	return n.String(), nil
}
