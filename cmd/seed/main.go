package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"

	"usedgoods-market/internal/config"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/repository/postgres"
	"usedgoods-market/internal/seed"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	dataPath := flag.String("data", "", "Seed YAML file (built-in demo data when empty)")
	migrate := flag.Bool("migrate", true, "Apply the schema before seeding")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	data := seed.Default()
	if *dataPath != "" {
		if data, err = seed.Load(*dataPath); err != nil {
			log.Fatalf("Failed to read seed data: %v", err)
		}
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	store := postgres.NewStore(db)
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)

	if *migrate {
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}
	if err := store.Seed(ctx, data); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	logger.Info("Seed data successfully populated")
}
