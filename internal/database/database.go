// Package database owns the shared Postgres connection and schema
// migrations for the catalogue and interaction stores.
package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"cinefeed/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the process-wide connection, set by Connect
var DB *gorm.DB

// Config holds Postgres connection settings
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoadConfig reads connection settings from DB_* environment variables
func LoadConfig() *Config {
	return &Config{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOr("DB_PORT", "5432"),
		User:     envOr("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   envOr("DB_NAME", "cinefeed"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}
}

// DSN renders the settings as a libpq connection string. The password
// key is omitted entirely when empty; libpq rejects a bare password=.
func (c *Config) DSN() string {
	parts := []string{
		"host=" + c.Host,
		"port=" + c.Port,
		"user=" + c.User,
		"dbname=" + c.DBName,
		"sslmode=" + c.SSLMode,
	}
	if c.Password != "" {
		parts = append(parts, "password="+c.Password)
	}
	return strings.Join(parts, " ")
}

// Connect opens the Postgres connection and stores it in DB
func Connect(config *Config) error {
	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	log.Printf("Connected to database %s at %s:%s", config.DBName, config.Host, config.Port)
	return nil
}

// Migrate runs schema migrations for every registered model
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database connection not established")
	}

	if err := models.AutoMigrate(DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Close closes the underlying connection pool
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
