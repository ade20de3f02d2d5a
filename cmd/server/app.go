package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/tasknest/tasknest-api/internal/api"
	"github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/email"
	"github.com/tasknest/tasknest-api/internal/platform/postgres"
	"github.com/tasknest/tasknest-api/internal/platform/sendgrid"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// application bundles everything the running server needs: config, the
// database handle, the stores and services, and the assembled router.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore store.TaskStore
	userStore store.UserStore

	taskHandler *api.TaskHandler
	authHandler *api.AuthHandler
	authMw      *middleware.AuthMiddleware
}

// newApplication wires the dependency graph bottom-up: database, then
// stores, then services, then handlers.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	taskStore := postgres.NewPostgresTaskStore(db, log)
	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	notifier := email.NewAccountNotifier(newEmailSender(cfg.Email, log), cfg.Email.FromAddress, log)

	taskHandler := api.NewTaskHandler(taskStore, log)
	authHandler := api.NewAuthHandler(userStore, jwtService, auth.NewBcryptVerifier(), notifier, log)
	authMw := middleware.NewAuthMiddleware(jwtService, log)

	return &application{
		config:      cfg,
		logger:      log,
		db:          db,
		taskStore:   taskStore,
		userStore:   userStore,
		taskHandler: taskHandler,
		authHandler: authHandler,
		authMw:      authMw,
	}, nil
}

// newEmailSender picks the SendGrid sender when an API key is set and
// the log-only fallback otherwise, so local development works without
// credentials.
func newEmailSender(cfg config.EmailConfig, log *slog.Logger) email.Sender {
	if cfg.SendGridKey == "" {
		log.Warn("no sendgrid key configured, account emails will only be logged")
		return sendgrid.NewLogSender(log)
	}
	return sendgrid.NewSender(cfg.SendGridKey, log)
}

// Run starts the HTTP server and blocks until shutdown completes.
func (a *application) Run() error {
	return serve(a.config.Server, a.buildRouter(), a.logger)
}

// Close releases held resources.
func (a *application) Close() error {
	return a.db.Close()
}
