package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/arcanehq/realmgate/internal/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var dir string
	var command string
	flag.StringVar(&dir, "dir", "migrations", "directory with migration files")
	flag.StringVar(&command, "command", "up", "goose command (up, down, status, version)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("failed to set goose dialect", slog.Any("error", err))
		os.Exit(1)
	}

	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "version":
		err = goose.Version(db, dir)
	default:
		logger.Error("unknown migration command", slog.String("command", command))
		os.Exit(1)
	}

	if err != nil {
		logger.Error("migration failed", slog.String("command", command), slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("migration completed", slog.String("command", command))
}
