package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/scrapdash/scrapdash-go/internal/config"
	"github.com/scrapdash/scrapdash-go/internal/repository"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|down|status)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	switch *command {
	case "up":
		err = repository.Migrate(db)
	case "down":
		err = repository.MigrateDown(db)
	case "status":
		err = repository.MigrationStatus(db)
	default:
		slog.Error("unsupported command", "command", *command)
		os.Exit(1)
	}

	if err != nil {
		slog.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}

	slog.Info("migration command completed", "command", *command)
}
