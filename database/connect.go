package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"venue_pos/config"
	"venue_pos/model"
)

// ConnectDB opens the configured database, migrates it and, when enabled,
// seeds the default accounts and menu.
func ConnectDB(settings *config.Settings, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(settings)
	if err != nil {
		return nil, err
	}
	log.Info("connection opened to database", zap.String("driver", settings.DBDriver))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database migrated")

	if settings.Seed {
		if err := SeedData(db, settings.TablePassword, log); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func Open(settings *config.Settings) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	if settings.IsDevelopment() {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	switch settings.DBDriver {
	case config.DriverSQLite:
		return OpenSQLite(settings.SQLitePath, cfg)
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(settings.PostgresDSN()), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", settings.DBDriver)
}

// OpenSQLite opens a sqlite database. SQLite has no row locks, so the pool is
// held to one connection and every transaction runs alone.
func OpenSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Account{},
		&model.MenuEntry{},
		&model.Order{},
		&model.Payment{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
