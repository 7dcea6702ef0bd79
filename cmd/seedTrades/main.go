package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tradeboard/backend/data"
	"tradeboard/infrastructure/config"
	"tradeboard/infrastructure/sqlite"
)

func main() {
	migrationsDir, err := config.ResolveRepoPath(true, "infrastructure", "sqlite", "migrations")
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}
	repoRoot := filepath.Dir(filepath.Dir(filepath.Dir(migrationsDir)))

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		if seedPath, err = config.ResolveRepoPath(false, config.DefaultSeedPath); err != nil {
			log.Fatalf("resolve seed file: %v", err)
		}
	}
	dbPath := getenv("SQLITE_PATH", filepath.Join(repoRoot, "trades.db"))

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := sqlite.ApplyMigrations(ctx, db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	n, err := data.SeedIfEmpty(ctx, db, seedPath)
	if err != nil {
		log.Fatalf("seed trades: %v", err)
	}
	fmt.Printf("seeded %d trades into %s\n", n, dbPath)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
