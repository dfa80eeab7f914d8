package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hotel-housekeeping/models"
)

const maxHousekeeperName = 80

func (m *LifecycleManager) ListHousekeepers(ctx context.Context) ([]models.Housekeeper, error) {
	housekeepers := []models.Housekeeper{}
	if err := m.db.WithContext(ctx).Order("id ASC").Find(&housekeepers).Error; err != nil {
		return nil, fmt.Errorf("list housekeepers: %w", err)
	}
	return housekeepers, nil
}

func (m *LifecycleManager) CreateHousekeeper(ctx context.Context, name string) (*models.Housekeeper, error) {
	name, err := requireText("name", name)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(name) > maxHousekeeperName {
		return nil, validationError("name", "must be at most %d characters", maxHousekeeperName)
	}

	housekeeper := &models.Housekeeper{Name: name}
	if err := m.db.WithContext(ctx).Create(housekeeper).Error; err != nil {
		return nil, fmt.Errorf("create housekeeper: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"housekeeper_id": housekeeper.ID,
		"name":           housekeeper.Name,
	}).Info("housekeeper created")

	return housekeeper, nil
}
