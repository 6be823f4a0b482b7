package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sangkips/library-api/internal/config"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	slog.Info("connected to PostgreSQL", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	slog.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},

		// Catalogue
		&entity.BookType{},
		&entity.BookAuthor{},
		&entity.BookPublication{},
		&entity.BookLanguage{},
		&entity.Book{},
		&entity.Ledger{},
		&entity.Member{},
		&entity.BookCopy{},

		// Documents
		&entity.Stock{},
		&entity.StockDetail{},
		&entity.Circulation{},
		&entity.CirculationEntry{},

		// System
		&entity.DocumentSequence{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// SeedDefaultData seeds the lookup tables and, when ADMIN_USERNAME and
// ADMIN_PASSWORD are set, the first staff account.
func SeedDefaultData(db *gorm.DB) error {
	slog.Info("seeding default data")

	for _, name := range []string{"General", "Reference", "Periodical"} {
		if err := firstOrCreate(db, &entity.BookType{Name: name}); err != nil {
			slog.Warn("failed to seed book type", "name", name, "error", err)
		}
	}
	for _, name := range []string{"English", "Hindi", "Marathi"} {
		if err := firstOrCreate(db, &entity.BookLanguage{Name: name}); err != nil {
			slog.Warn("failed to seed language", "name", name, "error", err)
		}
	}

	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		slog.Info("default data seeding completed")
		return nil
	}

	var existing entity.User
	err := db.Where("username = ?", adminUsername).First(&existing).Error
	switch {
	case err == nil:
		slog.Info("admin user already exists", "username", adminUsername)
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		email := viper.GetString("ADMIN_EMAIL")
		if email == "" {
			email = adminUsername + "@localhost"
		}
		admin := entity.User{
			Name:     "Administrator",
			Username: adminUsername,
			Email:    email,
			Password: string(hashed),
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		slog.Info("admin user created", "username", adminUsername)
	default:
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	slog.Info("default data seeding completed")
	return nil
}

type named interface {
	*entity.BookType | *entity.BookLanguage
}

func firstOrCreate[T named](db *gorm.DB, row T) error {
	return db.Where(row).FirstOrCreate(row).Error
}
