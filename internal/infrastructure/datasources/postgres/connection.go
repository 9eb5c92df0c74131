package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"nft-storefront.backend/internal/infrastructure/models"
)

var (
	openDialector = func(dsn string) gorm.Dialector {
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	}
	pingDB = func(db *gorm.DB) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}
)

// Open connects GORM to the activity database. The connection is lazy, so
// an unreachable server is reported by Ping rather than here.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(openDialector(dsn), &gorm.Config{
		PrepareStmt:          false,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Ping checks the database is reachable.
func Ping(db *gorm.DB) error {
	if err := pingDB(db); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Migrate creates or updates the tables the storefront owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Activity{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
