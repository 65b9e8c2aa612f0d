// Package store opens the user repository selected by configuration.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"userauth/internal/config"
	"userauth/internal/db"
	"userauth/internal/model"
	"userauth/internal/repository"
)

// Open connects to the configured database and returns the user repository
// along with a function releasing the connection.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.UserRepository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		users, err := repository.NewMongoUserRepository(ctx, database)
		if err != nil {
			_ = db.CloseMongo(database)
			return nil, nil, err
		}
		closeFn := func() {
			if err := db.CloseMongo(database); err != nil {
				logger.Warn("close mongo", slog.String("error", err.Error()))
			}
		}
		return users, closeFn, nil

	case config.DriverMySQL, config.DriverSQLite:
		var (
			gormDB *gorm.DB
			err    error
		)
		if cfg.DBDriver == config.DriverMySQL {
			gormDB, err = db.NewMySQL(cfg.MySQLDSN)
		} else {
			gormDB, err = db.NewSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, nil, err
		}
		if err := migrate(gormDB); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := closeGorm(gormDB); err != nil {
				logger.Warn("close sql database", slog.String("error", err.Error()))
			}
		}
		return repository.NewGormUserRepository(gormDB), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q (want %s, %s or %s)",
			cfg.DBDriver, config.DriverMongo, config.DriverMySQL, config.DriverSQLite)
	}
}

// migrate creates or updates the users table. The connection is closed when
// migration fails.
func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		_ = closeGorm(gormDB)
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func closeGorm(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
