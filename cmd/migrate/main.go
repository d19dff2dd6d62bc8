package main

import (
	"flag"
	"log"

	"gym_club_backend/internal/config"
	"gym_club_backend/internal/database"
	"gym_club_backend/pkg/utils"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	utils.InitLogger(cfg.IsDevelopment())

	dir, err := database.FindMigrationsDir(cfg.MigrationsPath)
	if err != nil {
		log.Fatalf("Failed to locate migrations: %v", err)
	}
	if err := database.Migrate(cfg.MigrationURL(), dir, *direction); err != nil {
		utils.LogError(err, "Migration failed")
		log.Fatalf("Migration failed: %v", err)
	}
}
