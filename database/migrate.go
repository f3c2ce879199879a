package database

import (
	"fmt"
	"log"

	"github.com/donely-api/models"
	"gorm.io/gorm"
)

// Models lists every table managed by AutoMigrate, parents before children
func Models() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Project{},
		&models.ClientProjectAccess{},
		&models.RoadmapItem{},
		&models.Sprint{},
		&models.SprintTask{},
		&models.SprintDelivery{},
		&models.Report{},
		&models.Evidence{},
		&models.Comment{},
	}
}

// Migrate migrates the database schema
func Migrate(db *gorm.DB) error {
	log.Println("Migrating database schema...")

	// gen_random_uuid() is built in from PostgreSQL 13, older servers need pgcrypto
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Printf("Warning: could not ensure pgcrypto extension: %v", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("✅ Database schema migrated")
	return nil
}
