package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptionsReadsConfigFileFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// registers restore of the caller's value, then clears it for godotenv
	t.Setenv("CONFIG_FILE", "")
	os.Unsetenv("CONFIG_FILE")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CONFIG_FILE=planner.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "planner.yaml"), []byte("log_level: debug\nfleet:\n  vehicles: 3\n  capacity: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := loadOptions([]string{"-publish"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.envLoaded {
		t.Fatal("expected .env to be loaded")
	}
	if !opts.publish {
		t.Fatal("expected -publish to be set")
	}
	if opts.cfg.LogLevel != "debug" || opts.cfg.Fleet.Vehicles != 3 || opts.cfg.Fleet.Capacity != 90 {
		t.Fatalf("config not read from planner.yaml: %+v", opts.cfg)
	}
}
