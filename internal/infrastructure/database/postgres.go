package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/deskastudio/kasir-umkm-api/internal/config"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/enum"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Sales entities
		&entity.Transaction{},
		&entity.TransactionDetail{},
		&entity.StockAdjustment{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultUsers creates the initial admin and kasir accounts when the
// users table is empty, so a fresh install can be logged into.
func SeedDefaultUsers(db *gorm.DB, cfg *config.SeedConfig) error {
	var count int64
	if err := db.Model(&entity.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default users...")

	seeds := []struct {
		username string
		name     string
		password string
		role     enum.UserRole
	}{
		{cfg.AdminUsername, "Administrator", cfg.AdminPassword, enum.RoleAdmin},
		{cfg.KasirUsername, "Kasir", cfg.KasirPassword, enum.RoleKasir},
	}

	for _, s := range seeds {
		if s.username == "" || s.password == "" {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := entity.User{
			Username: s.username,
			Name:     s.name,
			Password: string(hashed),
			Role:     s.role,
			Active:   true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.username, err)
		}
		log.Printf("Seeded %s user: %s", s.role, s.username)
	}

	return nil
}
