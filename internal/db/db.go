package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/desmitry/urfu-teamfinder/internal/config"
)

// NewDB initializes the database connection using DSN from config.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.App.Env == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	database, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

// Migrate wires the custom join model and syncs the schema with the models.
func Migrate(database *gorm.DB) error {
	if err := database.SetupJoinTable(&Account{}, "Tags", &AccountTag{}); err != nil {
		return fmt.Errorf("failed to set up join table: %w", err)
	}
	if err := database.AutoMigrate(&Account{}, &Tag{}, &AccountTag{}, &Like{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
