package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"plantid-go/internal/config"
)

// Connect opens PostgreSQL when DB_HOST is configured, otherwise a local
// SQLite file so the server boots without external services.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBHost == "" {
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		log.Printf("connected to sqlite database %s", cfg.SQLitePath)
		return db, nil
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	log.Println("connected to PostgreSQL")
	return db, nil
}
