// Package main implements the entry point for the catalog API server, which
// manages products, their categories, statuses and images.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/phrazzld/catalog-api/internal/config"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/platform/postgres"
	"github.com/phrazzld/catalog-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// run parses flags and either executes a one-off command (-migrate, -seed)
// or serves the API until interrupted.
func run(args []string) error {
	fset := flag.NewFlagSet("server", flag.ContinueOnError)
	migrate := fset.String("migrate", "", "run a migration command (up, down, redo, reset, status, version) and exit")
	seed := fset.Bool("seed", false, "migrate up, insert demo data and exit")
	if err := fset.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"media_driver", cfg.Media.Driver,
		"revocation_backend", cfg.Auth.RevocationBackend)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	log.Info("Database connection established")

	switch {
	case *migrate != "":
		defer closeDB(db, log)
		return postgres.Migrate(ctx, db, *migrate, log, fset.Args()...)

	case *seed:
		defer closeDB(db, log)
		if err := postgres.Migrate(ctx, db, "up", log); err != nil {
			return err
		}
		return postgres.Seed(ctx, db, cfg.Seed, auth.NewBcryptHasher(cfg.Auth.BcryptCost).Hash, log)
	}

	if err := postgres.Migrate(ctx, db, "up", log); err != nil {
		closeDB(db, log)
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		closeDB(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
