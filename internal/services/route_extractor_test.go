package services

import (
	"collection-route-service/internal/domain"
	"errors"
	"reflect"
	"testing"
)

func TestFlattenRoutesDropsUnusedAndMergesDepots(t *testing.T) {
	sol := &domain.Solution{Routes: []domain.Route{
		{Vehicle: 0, Nodes: []int{0, 0}},
		{Vehicle: 1, Nodes: []int{0, 2, 1, 0}},
		{Vehicle: 2, Nodes: []int{0, 0}},
		{Vehicle: 3, Nodes: []int{0, 3, 0}},
	}}

	got, err := FlattenRoutes(sol, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 2, 1, 0, 3, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("flatten = %v, want %v", got, want)
	}
}

func TestFlattenRoutesRejectsOutOfRangeIndex(t *testing.T) {
	sol := &domain.Solution{Routes: []domain.Route{{Nodes: []int{0, 4, 0}}}}

	_, err := FlattenRoutes(sol, 3)
	var oob *domain.IndexOutOfRangeError
	if !errors.As(err, &oob) {
		t.Fatalf("err = %v, want IndexOutOfRangeError", err)
	}
	if oob.Index != 4 || oob.Max != 3 {
		t.Fatalf("err = %+v", oob)
	}

	sol = &domain.Solution{Routes: []domain.Route{{Nodes: []int{0, -1, 0}}}}
	if _, err := FlattenRoutes(sol, 3); !errors.As(err, &oob) {
		t.Fatalf("err = %v, want IndexOutOfRangeError", err)
	}
}

func TestExtractTour(t *testing.T) {
	depot := domain.Coordinates{Lat: 50.98, Lon: 7.11}
	points := []domain.PickupPoint{
		{ID: "a", Coordinates: domain.Coordinates{Lat: 1, Lon: 1}, Fill: 30},
		{ID: "b", Coordinates: domain.Coordinates{Lat: 2, Lon: 2}, Fill: 30},
	}
	sol := &domain.Solution{Routes: []domain.Route{
		{Vehicle: 0, Nodes: []int{0, 0}},
		{Vehicle: 1, Nodes: []int{0, 2, 0}},
		{Vehicle: 2, Nodes: []int{0, 1, 0}},
	}}

	tour, err := ExtractTour(sol, points, depot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Coordinates{depot, points[1].Coordinates, depot, points[0].Coordinates, depot}
	if !reflect.DeepEqual(tour, want) {
		t.Fatalf("tour = %v, want %v", tour, want)
	}

	depots := 0
	for _, c := range tour[:2] {
		if c == depot {
			depots++
		}
	}
	if depots != 1 {
		t.Fatalf("tour starts with %d depot entries", depots)
	}
}

func TestExtractTourNilSolution(t *testing.T) {
	if _, err := ExtractTour(nil, nil, domain.Coordinates{}); err == nil {
		t.Fatal("expected error for nil solution")
	}
}
