package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/VedantNarayan/champaran-meat-house/internal/config"
	"github.com/VedantNarayan/champaran-meat-house/internal/database"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/migrations"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	flag.Parse()

	fmt.Println("Initializing database...")

	cfg := config.Load()
	log := logger.New(cfg.LogLevel).WithComponent("init-db")

	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if *reset {
		fmt.Println("Dropping existing tables...")
		if err := migrations.DropAll(db); err != nil {
			log.Warn("error dropping tables", "error", err)
		}
	}

	seed := migrations.Seed{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword}
	if err := migrations.RunMigrations(context.Background(), db, seed, log); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("Database initialization completed successfully!")
	fmt.Println("Admin email:", cfg.AdminEmail)
}
