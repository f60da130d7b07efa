package database

import (
	"healthassistant/internal/models"
	"log"

	"gorm.io/gorm"
)

func MigrateDatabase(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.UserProfile{},
		&models.DailyLog{},
		&models.MealEntry{},
		&models.SleepSession{},
		&models.VitalReading{},
	)

	if err != nil {
		log.Printf("Error during migration: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}
