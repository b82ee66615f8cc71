package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/config"
	"github.com/aureeture/aureeture-api/pkg/db"
	"github.com/aureeture/aureeture-api/pkg/logger"
)

func main() {
	migrationsPath := flag.String("path", "file://migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		ServiceName: "aureeture-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)),
		zap.String("source", *migrationsPath))

	if err := db.RunMigrations(cfg.Database.URL, *migrationsPath); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides credentials when logging the connection target.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:20] + "***"
	}
	return "***"
}
