package repositories

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`[{"id": 1, "lat": 50.9, "lon": 7.1, "fill": 30}, {"id": 2, "lat": 50.8, "lon": 7.2, "fill": 5}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	points, err := LoadSeed(good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 || points[0].ID != "1" || points[1].Fill != 5 {
		t.Fatalf("points = %+v", points)
	}

	dup := filepath.Join(dir, "dup.json")
	if err := os.WriteFile(dup, []byte(`[{"id": "a", "lat": 1, "lon": 1, "fill": 1}, {"id": "a", "lat": 2, "lon": 2, "fill": 2}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeed(dup); err == nil {
		t.Fatal("expected duplicate id error")
	}

	if _, err := LoadSeed(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
