package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"github.com/yeremiapane/hotel-housekeeping/utils"
	"gorm.io/gorm"
)

// SeedResult counts rows created by one Seed run.
type SeedResult struct {
	RoomsCreated        int
	HousekeepersCreated int
}

// Seed provisions the fixed room inventory and the housekeeping staff. It is idempotent:
// rooms are matched by number and housekeepers by name, existing rows are left untouched.
func Seed(db *gorm.DB, roomNumbers, housekeepers []string) (SeedResult, error) {
	var result SeedResult

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, number := range roomNumbers {
			created, err := createMissing(tx, &models.Room{RoomNumber: number, Status: models.RoomStatusOccupied},
				"room_number = ?", number)
			if err != nil {
				return fmt.Errorf("seed room %s: %w", number, err)
			}
			if created {
				result.RoomsCreated++
			}
		}

		for _, name := range housekeepers {
			created, err := createMissing(tx, &models.Housekeeper{Name: name}, "name = ?", name)
			if err != nil {
				return fmt.Errorf("seed housekeeper %s: %w", name, err)
			}
			if created {
				result.HousekeepersCreated++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	utils.Info().WithFields(logrus.Fields{
		"rooms_created":        result.RoomsCreated,
		"housekeepers_created": result.HousekeepersCreated,
	}).Info("provisioning completed")

	return result, nil
}

// createMissing inserts row unless a record matching the condition already exists.
func createMissing(tx *gorm.DB, row interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(row).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
