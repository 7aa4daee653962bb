package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fintrack/fintrack/internal/entities"
)

// ErrNotFound is returned by repositories when a record does not exist
// or is owned by another user. The two cases are deliberately
// indistinguishable so handlers cannot leak existence of other users'
// records.
var ErrNotFound = errors.New("record not found")

// defaultCategories seed the category list on first start.
var defaultCategories = []string{
	"Income",
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Bills & Utilities",
	"Entertainment",
	"Healthcare",
	"Investments",
	"Education",
	"Other",
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surface unique-index violations as gorm.ErrDuplicatedKey so the
		// auth service can translate the concurrent-signup race.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Transaction{},
		&entities.Budget{},
		&entities.Subscription{},
		&entities.Bill{},
		&entities.Chat{},
		&entities.ChatMessage{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}
	if err := database.seedCategories(); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)
	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListCategories returns the seeded category names in display order.
func (d *Database) ListCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := d.DB.Order("id ASC").Find(&categories).Error
	return categories, err
}

func (d *Database) seedCategories() error {
	for _, name := range defaultCategories {
		var existing entities.Category
		result := d.DB.Where("name = ?", name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&entities.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", name, err)
			}
		}
	}
	return nil
}
