package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"contesto/internal/config"
	"contesto/internal/database"

	_ "github.com/lib/pq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatalf("SQL migrations target postgres, DB_DRIVER is %q", cfg.Database.Driver)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database successfully")

	// Tables must exist before constraints and triggers reference them
	gdb, err := database.Connect(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to open gorm connection: %v", err)
	}
	if err := database.AutoMigrate(gdb); err != nil {
		log.Fatalf("Failed to migrate models: %v", err)
	}
	database.Close(gdb)

	applied, err := database.ApplyMigrations(ctx, db, cfg.Migrations.Dir)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("Migrations complete: %d applied", len(applied))
}
