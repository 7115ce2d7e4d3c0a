package main

import (
	"flag"

	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	down := flag.Int("down", 0, "Roll back this many migrations instead of migrating up")
	flag.Parse()

	envErr := godotenv.Load()
	logger := logger.New()
	if envErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}
	dsn := database.PrepareDSN(cfg.DBConnectionString, cfg.IsDevelopment())

	if *down > 0 {
		if err := database.MigrateDown(dsn, *down); err != nil {
			logger.Fatal().Msgf("Migration down failed: %v", err)
		}
		logger.Info().Int("steps", *down).Msg("Migrations rolled back")
		return
	}
	if err := database.MigrateUp(dsn); err != nil {
		logger.Fatal().Msgf("Migration up failed: %v", err)
	}
	logger.Info().Msg("Database is up to date")
}
