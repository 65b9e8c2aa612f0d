package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"userauth/internal/config"
	"userauth/internal/logging"
	"userauth/internal/model"
	"userauth/internal/repository"
	"userauth/internal/store"
)

// seed creates the administrator account described by ADMIN_NAME,
// ADMIN_EMAIL and ADMIN_PASSWORD. Re-running it is a no-op.
func main() {
	cfg := config.Load()
	logger := logging.Default("seed", cfg.LogLevel, cfg.LogFormat)

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Error("ADMIN_EMAIL and ADMIN_PASSWORD are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open user store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	if err := seedAdmin(ctx, users, cfg.Admin); err != nil {
		logger.Error("seed admin", slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}
	logger.Info("admin account ready", slog.String("email", cfg.Admin.Email))
}

func seedAdmin(ctx context.Context, users repository.UserRepository, admin config.AdminConfig) error {
	if _, err := users.FindByEmail(ctx, admin.Email, false); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	user := model.NewUser(admin.Name, admin.Email, admin.Password)
	user.Role = model.RoleAdmin
	if err := user.Validate(); err != nil {
		return err
	}
	if err := users.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	return nil
}
