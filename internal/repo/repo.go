package repo

import (
	"errors"
	"fmt"

	"github.com/MaurerErik/power-data-downloader/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	if err := db.AutoMigrate(&models.Log{}, &models.HarvestRun{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
