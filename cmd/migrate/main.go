package main

import (
	"log"
	"os"

	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/config"
	"github.com/jeldja/ProScout/pkg/database"
	"github.com/jeldja/ProScout/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL is not set")
	}
	lg := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		lg.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command := os.Args[1]; command {
	case "up":
		if err := services.NewArchetypeStore(db, lg).Migrate(); err != nil {
			lg.Fatalf("Failed to run migrations: %v", err)
		}
		lg.Info("Migrations completed successfully")

	case "down":
		if err := db.Migrator().DropTable(&models.ArchetypeAssignment{}, &models.ArchetypeRun{}); err != nil {
			lg.Fatalf("Failed to drop tables: %v", err)
		}
		lg.Info("Tables dropped successfully")

	default:
		lg.Fatalf("Unknown command: %s", command)
	}
}
