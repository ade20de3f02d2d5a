// Command server runs the task management HTTP API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run pending database migrations and exit")
	flag.Parse()

	if err := run(*migrateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and either runs migrations
// or starts the full application. Kept separate from main so the exit
// path stays testable.
func run(migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if migrateOnly {
		log.Info("running database migrations")
		if err := runMigrations(cfg.Database, log); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		log.Info("migrations complete")
		return nil
	}

	app, err := newApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("error during shutdown cleanup", slog.String("error", err.Error()))
		}
	}()

	return app.Run()
}
