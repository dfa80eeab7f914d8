package database

import (
	"fmt"

	"github.com/yeremiapane/hotel-housekeeping/models"
	"github.com/yeremiapane/hotel-housekeeping/utils"
	"gorm.io/gorm"
)

// ActiveTaskIndex is the unique index backing the one-active-task-per-room rule.
const ActiveTaskIndex = "idx_cleaning_tasks_active_room"

// Migrate creates or updates the four lifecycle tables. Parents come first so that the
// foreign keys declared on Room and Housekeeper can be attached to their children.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Room{},
		&models.Housekeeper{},
		&models.Checkout{},
		&models.CleaningTask{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Refuse to run without the one-active-task-per-room guard.
	if !db.Migrator().HasIndex(&models.CleaningTask{}, ActiveTaskIndex) {
		return fmt.Errorf("auto migrate: unique index on cleaning_tasks.active_room_id is missing")
	}

	utils.Info().Println("AutoMigrate completed.")
	return nil
}
