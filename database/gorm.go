package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// connectAttempts bounds how many times Open dials the database before giving up
const connectAttempts = 5

// Open sets up the GORM database connection, retrying while the server comes up
func Open(ctx context.Context, dbURL, logLevel string) (*gorm.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	// Configure GORM logger
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  ParseLogLevel(logLevel),
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second

	db, err := backoff.Retry(ctx, func() (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
			Logger: newLogger,
		})
		if err != nil {
			return nil, err
		}
		return db, nil
	},
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(connectAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("⚠️ Database not reachable (%v), retrying in %s", err, next)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get and configure the underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("✅ Connected to database")

	var version string
	if err := sqlDB.QueryRowContext(ctx, "SELECT version()").Scan(&version); err == nil {
		log.Printf("📊 Database: %s", version)
	}

	return db, nil
}

// ParseLogLevel maps DB_LOG_LEVEL values onto gorm logger levels
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Close releases the pooled connections
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
	}
}
