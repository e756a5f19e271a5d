package main

import (
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/config"
	"collection-route-service/internal/platform/db"
	"context"
	"database/sql"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/pickup_points.json")
	if err := initAndSeed(ctx, conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, db); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.WithField("path", seedPath).Println("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, db, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
