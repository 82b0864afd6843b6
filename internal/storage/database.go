package storage

import (
	"fmt"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cardsync/internal/config"
)

// Open connects to the Postgres settings database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := "host=" + cfg.DatabaseHost +
		" user=" + cfg.DatabaseUser +
		" password=" + cfg.DatabasePassword +
		" dbname=" + cfg.DatabaseName +
		" port=" + strconv.Itoa(cfg.DatabasePort) +
		" sslmode=" + cfg.DatabaseSSLMode

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserDriveSettings{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
